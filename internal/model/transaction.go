package model

import "time"

// TransactionKind classifies a transaction as money in or money out.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// IsValid checks if the kind is one of the accepted values.
func (k TransactionKind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction represents a single income or expense record.
// UserID is the owner; a transaction is only visible to and deletable by
// its owner.
type Transaction struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Kind       TransactionKind `json:"kind"`
	Category   string          `json:"category"`
	Amount     float64         `json:"amount"`
	Note       string          `json:"note,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

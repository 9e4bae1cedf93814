package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
)

// Transaction service errors.
var (
	ErrInvalidKind         = errors.New("kind must be income or expense")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotOwner            = errors.New("transaction belongs to another user")
)

// TransactionStore is the slice of the repository the transaction service needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactionsByOwner(ctx context.Context, userID string) ([]*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// TransactionService enforces create/list/delete semantics and the
// ownership invariant. Ownership is checked here and nowhere else.
type TransactionService struct {
	store   TransactionStore
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store TransactionStore, recorder metrics.Recorder, logger *slog.Logger) *TransactionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TransactionService{
		store:   store,
		metrics: recorder,
		logger:  logger,
	}
}

// AddTransactionInput carries the fields of a new transaction.
// Amount is a pointer so that an absent amount is distinguishable from zero.
type AddTransactionInput struct {
	Kind       model.TransactionKind
	Category   string
	Amount     *float64
	Note       string
	OccurredAt *time.Time
}

// Add persists a new transaction owned by userID.
func (s *TransactionService) Add(ctx context.Context, userID string, input AddTransactionInput) (*model.Transaction, error) {
	if input.Kind == "" || input.Category == "" || input.Amount == nil {
		return nil, ErrMissingFields
	}
	if !input.Kind.IsValid() {
		return nil, ErrInvalidKind
	}

	now := time.Now().UTC()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	tx := &model.Transaction{
		ID:         newULID(),
		UserID:     userID,
		Kind:       input.Kind,
		Category:   input.Category,
		Amount:     *input.Amount,
		Note:       input.Note,
		OccurredAt: occurredAt,
		CreatedAt:  now,
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.metrics.IncTransactionCreated()

	return tx, nil
}

// List returns all transactions owned by userID, newest first.
func (s *TransactionService) List(ctx context.Context, userID string) ([]*model.Transaction, error) {
	transactions, err := s.store.ListTransactionsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// Delete removes a transaction permanently after checking ownership.
// Returns ErrTransactionNotFound for unknown ids and ErrNotOwner when the
// transaction belongs to someone else.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	tx, err := s.store.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	if tx.UserID != userID {
		s.logger.Warn("ownership check failed",
			"transaction_id", id,
			"owner_id", tx.UserID,
			"principal_id", userID,
		)
		return ErrNotOwner
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			// Lost a race with a concurrent delete.
			return ErrTransactionNotFound
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.metrics.IncTransactionDeleted()

	return nil
}

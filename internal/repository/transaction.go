package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fintrack/fintrack/internal/model"
)

// ErrTransactionNotFound is returned when no transaction matches the given id.
var ErrTransactionNotFound = errors.New("transaction not found")

// CreateTransaction inserts a new transaction into the database.
func (r *Repository) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, kind, category, amount, note, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		tx.ID,
		tx.UserID,
		string(tx.Kind),
		tx.Category,
		tx.Amount,
		tx.Note,
		tx.OccurredAt,
		tx.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetTransactionByID retrieves a transaction by its ID, regardless of owner.
// Ownership is checked by the service layer.
func (r *Repository) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	query := `
		SELECT id, user_id, kind, category, amount, COALESCE(note, ''), occurred_at, created_at
		FROM transactions
		WHERE id = $1
	`

	var tx model.Transaction
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Kind,
		&tx.Category,
		&tx.Amount,
		&tx.Note,
		&tx.OccurredAt,
		&tx.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}

	return &tx, nil
}

// ListTransactionsByOwner returns all transactions owned by the given user,
// newest first. Returns an empty slice when the user has none.
func (r *Repository) ListTransactionsByOwner(ctx context.Context, userID string) ([]*model.Transaction, error) {
	query := `
		SELECT id, user_id, kind, category, amount, COALESCE(note, ''), occurred_at, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY occurred_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*model.Transaction, 0)
	for rows.Next() {
		var tx model.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Kind,
			&tx.Category,
			&tx.Amount,
			&tx.Note,
			&tx.OccurredAt,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// DeleteTransaction removes a transaction permanently.
// Two deletes racing on the same id are resolved here: the loser sees
// ErrTransactionNotFound.
func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

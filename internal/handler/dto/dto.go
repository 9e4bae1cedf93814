// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/fintrack/fintrack/internal/model"
)

// SignupRequest represents the request body for creating an account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public user view: the subset of user fields safe to
// return to a client. The password hash never appears here.
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfilePhoto string    `json:"profile_photo"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthResponse carries a fresh session token plus the account it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateTransactionRequest represents the request body for adding a transaction.
// Amount is a pointer so a missing amount is distinguishable from zero.
type CreateTransactionRequest struct {
	Kind       string     `json:"kind"`
	Category   string     `json:"category"`
	Amount     *float64   `json:"amount"`
	Note       string     `json:"note,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Category   string    `json:"category"`
	Amount     float64   `json:"amount"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserResponse converts a User model to the public view.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfilePhoto: user.ProfilePhoto,
		CreatedAt:    user.CreatedAt,
	}
}

// ToTransactionResponse converts a Transaction model to its response DTO.
func ToTransactionResponse(tx *model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         tx.ID,
		UserID:     tx.UserID,
		Kind:       string(tx.Kind),
		Category:   tx.Category,
		Amount:     tx.Amount,
		Note:       tx.Note,
		OccurredAt: tx.OccurredAt,
		CreatedAt:  tx.CreatedAt,
	}
}

// ToTransactionListResponse converts a slice of transactions.
// The response is a bare array, newest first, empty when the owner has none.
func ToTransactionListResponse(transactions []*model.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = ToTransactionResponse(tx)
	}
	return responses
}

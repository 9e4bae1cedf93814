package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/service"
)

// TransactionHandler handles HTTP requests for transaction operations.
type TransactionHandler struct {
	svc    *service.TransactionService
	logger *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(svc *service.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.AddTransactionInput{
		Kind:       model.TransactionKind(req.Kind),
		Category:   req.Category,
		Amount:     req.Amount,
		Note:       req.Note,
		OccurredAt: req.OccurredAt,
	}

	tx, err := h.svc.Add(r.Context(), userID, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("transaction_created",
		"transaction_id", tx.ID,
		"user_id", userID,
		"kind", string(tx.Kind),
	)

	writeJSON(w, http.StatusCreated, dto.ToTransactionResponse(tx))
}

// List handles GET /api/transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	transactions, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTransactionListResponse(transactions))
}

// Delete handles DELETE /api/transactions/{id}.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Transaction ID is required")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("transaction_deleted", "transaction_id", id, "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps transaction service errors to HTTP responses.
func (h *TransactionHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		h.writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "All required fields must be filled")
	case errors.Is(err, service.ErrInvalidKind):
		h.writeError(w, http.StatusBadRequest, "INVALID_KIND", "Kind must be income or expense")
	case errors.Is(err, service.ErrTransactionNotFound):
		h.writeError(w, http.StatusNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found")
	case errors.Is(err, service.ErrNotOwner):
		h.writeError(w, http.StatusForbidden, "FORBIDDEN", "Unauthorized action")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *TransactionHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

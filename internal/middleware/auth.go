package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/token"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier *token.Issuer
}

// Auth returns a middleware that authenticates requests.
// It extracts the bearer token, verifies it, and injects the resulting
// Principal into the request context. The gate holds no state and is safe
// to run per-request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractToken(r)
			if raw == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "UNAUTHORIZED", "No token, authorization denied")
				return
			}

			userID, err := cfg.Verifier.Verify(raw)
			if err != nil {
				reason := "invalid_token"
				code := "UNAUTHORIZED"
				message := "Invalid token"
				if errors.Is(err, token.ErrExpiredToken) {
					reason = "expired_token"
					code = "TOKEN_EXPIRED"
					message = "Token expired, please log in again"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, code, message)
				return
			}

			ctx := auth.ContextWithPrincipal(r.Context(), model.Principal{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from the request.
// Supports "Authorization: Bearer <token>" and a raw token in the
// X-Auth-Token header for older clients.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	return r.Header.Get("X-Auth-Token")
}

// writeAuthError writes a 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}

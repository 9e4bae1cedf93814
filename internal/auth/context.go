package auth

import (
	"context"

	"github.com/fintrack/fintrack/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// principalKey is the context key for storing the authenticated Principal.
const principalKey contextKey = "principal"

// ContextWithPrincipal adds the authenticated Principal to the context.
func ContextWithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the Principal from the context.
// The second return value is false if the request was not authenticated.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

// UserIDFromContext is a convenience accessor for the authenticated user id.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	p, _ := PrincipalFromContext(ctx)
	return p.UserID
}

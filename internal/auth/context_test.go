package auth

import (
	"context"
	"testing"

	"github.com/fintrack/fintrack/internal/model"
)

func TestPrincipalContext_Roundtrip(t *testing.T) {
	t.Parallel()

	ctx := ContextWithPrincipal(context.Background(), model.Principal{UserID: "user-1"})

	p, ok := PrincipalFromContext(ctx)
	if !ok {
		t.Fatal("expected principal in context")
	}
	if p.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", p.UserID)
	}

	if got := UserIDFromContext(ctx); got != "user-1" {
		t.Errorf("UserIDFromContext() = %s, want user-1", got)
	}
}

func TestPrincipalFromContext_Missing(t *testing.T) {
	t.Parallel()

	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Error("expected no principal in empty context")
	}
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("UserIDFromContext() = %s, want empty", got)
	}
}

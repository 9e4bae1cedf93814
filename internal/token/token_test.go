package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-do-not-use-in-production"

func TestIssueVerify_Roundtrip(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)

	signed, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	userID, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Verify() = %s, want user-123", userID)
	}
}

func TestVerify_SubjectNeverChanges(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)

	tokenA, err := issuer.Issue("user-a")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, err := issuer.Verify(tokenA)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got == "user-b" || got != "user-a" {
		t.Errorf("token for user-a verified as %s", got)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := NewIssuer(testSecret, time.Hour).Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = NewIssuer("other-secret", time.Hour).Verify(signed)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)

	// Sign an already-expired token with the same secret.
	claims := jwt.RegisteredClaims{
		Subject:   "user-123",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	_, err = issuer.Verify(signed)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestVerify_MalformedAndEmpty(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestVerify_RejectsUnsignedAlg(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)

	claims := jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := issuer.Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

// Older token mints put the subject in different claims; all shapes must
// normalize to the same user id.
func TestVerify_TolerantPayloadShapes(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"bare id", jwt.MapClaims{"id": "user-123", "exp": exp}},
		{"userId", jwt.MapClaims{"userId": "user-123", "exp": exp}},
		{"nested user.id", jwt.MapClaims{"user": map[string]any{"id": "user-123"}, "exp": exp}},
		{"canonical sub", jwt.MapClaims{"sub": "user-123", "exp": exp}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte(testSecret))
			if err != nil {
				t.Fatalf("sign token: %v", err)
			}

			userID, err := issuer.Verify(signed)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if userID != "user-123" {
				t.Errorf("Verify() = %s, want user-123", userID)
			}
		})
	}
}

func TestVerify_NoSubjectClaim(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)

	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := issuer.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, 0)
	if issuer.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", issuer.ttl, DefaultTTL)
	}
}

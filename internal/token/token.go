// Package token issues and verifies signed session tokens.
// Tokens are stateless HS256 JWTs carrying the subject user id; there is
// no server-side session state and no revocation.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime when none is configured (7 days).
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken indicates a missing, malformed or badly signed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates a token past its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Issuer creates and validates session tokens with a shared secret.
// It is a pure function of its inputs plus the current time; safe for
// concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue produces a signed token bound to the given user id.
func (i *Issuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns the subject
// user id. Earlier token mints used several payload shapes; all of them are
// accepted and normalized to the bare id:
//
//	{"sub": "<id>"}  {"id": "<id>"}  {"userId": "<id>"}  {"user": {"id": "<id>"}}
func (i *Issuer) Verify(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !tok.Valid {
		return "", ErrInvalidToken
	}

	userID := subjectFromClaims(claims)
	if userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// subjectFromClaims extracts the user id from any accepted payload shape.
func subjectFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"sub", "id", "userId"} {
		if id, ok := claims[key].(string); ok && id != "" {
			return id
		}
	}

	if nested, ok := claims["user"].(map[string]any); ok {
		if id, ok := nested["id"].(string); ok {
			return id
		}
	}

	return ""
}

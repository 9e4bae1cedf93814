// Package model defines domain entities for the application.
package model

import (
	"regexp"
	"strings"
	"time"
)

// DefaultProfilePhoto is the placeholder avatar assigned at signup.
const DefaultProfilePhoto = "https://cdn-icons-png.flaticon.com/512/3135/3135715.png"

// emailPattern is deliberately minimal: something@something.something.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered account.
// PasswordHash and PhotoRef are internal and never serialized to clients.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePhoto string    `json:"profile_photo"`
	PhotoRef     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated identity derived from a verified token.
// Every accepted token payload shape normalizes to this.
type Principal struct {
	UserID string
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
// Email uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address matches the accepted pattern.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

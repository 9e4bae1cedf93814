// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// NewTestRepository connects to the database named by TEST_DATABASE_URL,
// applies migrations and returns a Repository. Skips the test when the
// variable is unset.
func NewTestRepository(t testing.TB) *repository.Repository {
	t.Helper()

	url := RequireEnv(t, "TEST_DATABASE_URL")
	ctx := context.Background()

	repo, err := repository.New(ctx, url)
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}
	t.Cleanup(repo.Close)

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return repo
}

// NewTestCache connects to the Redis instance named by TEST_REDIS_URL.
// Skips the test when the variable is unset.
func NewTestCache(t testing.TB) *cache.Cache {
	t.Helper()

	url := RequireEnv(t, "TEST_REDIS_URL")

	c, err := cache.New(context.Background(), url)
	if err != nil {
		t.Fatalf("connect to test redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return c
}

// TruncateAll clears all application tables between tests.
func TruncateAll(t testing.TB, repo *repository.Repository) {
	t.Helper()

	_, err := repo.Pool().Exec(context.Background(),
		"TRUNCATE transactions, users")
	if err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

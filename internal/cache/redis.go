// Package cache holds the Redis-backed profile-view cache.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client. All cached data is disposable: every entry can
// be rebuilt from Postgres, so a flushed or restarted Redis is harmless.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection before returning.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}

	// Profile reads are the only cache traffic; a small pool is plenty.
	opt.PoolSize = 8
	opt.MinIdleConns = 1
	opt.PoolTimeout = 3 * time.Second
	opt.ConnMaxIdleTime = 10 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping checks Redis connectivity. Used by the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client and its connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

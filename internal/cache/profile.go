package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fintrack/fintrack/internal/model"
)

const (
	// profileCachePrefix is the Redis key prefix for cached profile views.
	profileCachePrefix = "profile:view:"
	// profileCacheTTL is the time-to-live for cached profile views.
	profileCacheTTL = 5 * time.Minute
)

// cachedProfile is the public slice of a user stored in Redis.
// The password hash and the storage ref never enter the cache.
type cachedProfile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfilePhoto string    `json:"profile_photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GetProfile retrieves a cached profile view by user id.
// Returns nil on a cache miss; a corrupted entry is treated as a miss.
func (c *Cache) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	data, err := c.client.Get(ctx, profileCachePrefix+userID).Bytes()
	if err != nil {
		return nil, nil //nolint:nilerr
	}

	var cached cachedProfile
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:           cached.ID,
		Name:         cached.Name,
		Email:        cached.Email,
		ProfilePhoto: cached.ProfilePhoto,
		CreatedAt:    cached.CreatedAt,
		UpdatedAt:    cached.UpdatedAt,
	}, nil
}

// SetProfile caches the public view of a user.
func (c *Cache) SetProfile(ctx context.Context, user *model.User) error {
	cached := cachedProfile{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfilePhoto: user.ProfilePhoto,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal profile view: %w", err)
	}

	return c.client.Set(ctx, profileCachePrefix+user.ID, data, profileCacheTTL).Err()
}

// DeleteProfile removes a cached profile view.
// Called after every profile update so readers never see a stale photo.
func (c *Cache) DeleteProfile(ctx context.Context, userID string) error {
	return c.client.Del(ctx, profileCachePrefix+userID).Err()
}

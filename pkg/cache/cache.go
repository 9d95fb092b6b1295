package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLRender  = 10 * time.Minute // cached rendered responses
	TTLListing = 1 * time.Minute  // post listings (refresh often)
	TTLDefault = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixRender = "blog:render:"
	PrefixTag    = "blog:tag:"
)

// Service is a Redis cache with tag-based invalidation.
// Every cached entry may declare one or more tags; flushing a tag
// evicts all entries that declared it.
type Service interface {
	// Render cache
	GetRender(ctx context.Context, key string) ([]byte, error)
	SetRender(ctx context.Context, key string, data []byte, tags []string, ttl time.Duration) error

	// FlushByTag evicts every entry tagged with tag. A tag nobody has
	// declared is a no-op. Backend errors propagate to the caller.
	FlushByTag(ctx context.Context, tag string) error

	// Basic operations
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Utility
	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a new tag-aware cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether a Redis client is configured
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping tests the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) renderKey(key string) string {
	return PrefixRender + key
}

func (c *redisCache) tagKey(tag string) string {
	return PrefixTag + tag
}

// GetRender returns a cached rendered response
func (c *redisCache) GetRender(ctx context.Context, key string) ([]byte, error) {
	if c.client == nil {
		return nil, redis.Nil
	}
	return c.client.Get(ctx, c.renderKey(key)).Bytes()
}

// SetRender stores a rendered response and registers it under its tags.
// The tag sets outlive the entry TTL slightly; flushing a tag whose
// entries already expired just deletes dead keys.
func (c *redisCache) SetRender(ctx context.Context, key string, data []byte, tags []string, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	entryKey := c.renderKey(key)
	if err := c.client.Set(ctx, entryKey, data, ttl).Err(); err != nil {
		return err
	}
	for _, tag := range tags {
		tk := c.tagKey(tag)
		if err := c.client.SAdd(ctx, tk, entryKey).Err(); err != nil {
			return err
		}
		if err := c.client.Expire(ctx, tk, ttl+time.Minute).Err(); err != nil {
			return err
		}
	}
	return nil
}

// FlushByTag evicts all entries registered under tag
func (c *redisCache) FlushByTag(ctx context.Context, tag string) error {
	if c.client == nil {
		// No cache layer at all means nothing to evict
		return nil
	}
	tk := c.tagKey(tag)
	entries, err := c.client.SMembers(ctx, tk).Result()
	if err != nil {
		return fmt.Errorf("flush tag %s: %w", tag, err)
	}
	if len(entries) > 0 {
		if err := c.client.Del(ctx, entries...).Err(); err != nil {
			return fmt.Errorf("flush tag %s: %w", tag, err)
		}
	}
	if err := c.client.Del(ctx, tk).Err(); err != nil {
		return fmt.Errorf("flush tag %s: %w", tag, err)
	}
	return nil
}

// Delete removes cache entries by key
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Exists checks whether a cache entry exists
func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

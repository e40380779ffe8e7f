package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// IntentCache implements ports.IntentCache using Redis.
type IntentCache struct {
	client *goredis.Client
	prefix string
}

// NewIntentCache creates a new Redis-backed intent cache.
func NewIntentCache(client *goredis.Client) *IntentCache {
	return &IntentCache{
		client: client,
		prefix: keyPrefix,
	}
}

// Get retrieves a cached intent. Returns nil, nil if the key does not exist.
func (c *IntentCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis intent cache get: %w", err)
	}
	return val, nil
}

// Set stores a serialized intent with TTL.
func (c *IntentCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis intent cache set: %w", err)
	}
	return nil
}

// Delete removes a cached intent. Deleting a missing key is not an error.
func (c *IntentCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis intent cache delete: %w", err)
	}
	return nil
}

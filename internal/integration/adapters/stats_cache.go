package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/driverlog/backend/internal/application/adapter"
)

// redisStatsCache implements the adapter.StatsCache interface on Redis.
type redisStatsCache struct {
	client *redis.Client
}

// NewRedisStatsCache creates a new Redis-backed stats cache instance.
func NewRedisStatsCache(client *redis.Client) adapter.StatsCache {
	return &redisStatsCache{
		client: client,
	}
}

// Get returns the cached value for key. A missing key is not an error; it is
// reported through the found flag.
func (c *redisStatsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key with the given TTL.
func (c *redisStatsCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

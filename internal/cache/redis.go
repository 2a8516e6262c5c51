// Package cache provides a Redis backed sdk.ResponseCache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/birbparty/go-confluence/sdk"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores Confluence GET responses in Redis
type RedisCache struct {
	client *redis.Client
	config *Config
	closed atomic.Bool
}

var _ sdk.ResponseCache = (*RedisCache)(nil)

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(config *Config) (*RedisCache, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	opts, err := config.Options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		config: config,
	}, nil
}

func (r *RedisCache) key(key string) string {
	return r.config.KeyPrefix + key
}

// Get retrieves a value from the cache
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if r.closed.Load() {
		return nil, ErrCacheClosed
	}
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, NewCacheError("failed to get key", true).WithError(err)
	}
	return val, nil
}

// Set stores a value in the cache. A zero ttl uses the configured default.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if r.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = r.config.DefaultTTL
	}

	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return NewCacheError("failed to set key", true).WithError(err)
	}
	return nil
}

// Delete removes a value from the cache. Deleting a missing key succeeds.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if r.closed.Load() {
		return ErrCacheClosed
	}
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return NewCacheError("failed to delete key", true).WithError(err)
	}
	return nil
}

// Clear removes every key under the configured prefix and returns how many
// were deleted.
func (r *RedisCache) Clear(ctx context.Context) (int, error) {
	if r.closed.Load() {
		return 0, ErrCacheClosed
	}

	var deleted int
	iter := r.client.Scan(ctx, 0, r.config.KeyPrefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := r.client.Del(ctx, batch...).Result()
		if err != nil {
			return NewCacheError("failed to delete keys", true).WithError(err)
		}
		deleted += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, NewCacheError("failed to scan keys", true).WithError(err)
	}
	return deleted, flush()
}

// TTL returns the remaining time to live of a key
func (r *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.key(key)).Result()
	if err != nil {
		return 0, NewCacheError("failed to get TTL", true).WithError(err)
	}

	// Key doesn't exist
	if ttl == -2 {
		return 0, ErrKeyNotFound
	}

	// Key exists but has no TTL
	if ttl == -1 {
		return 0, nil
	}

	return ttl, nil
}

// Ping checks if the cache is healthy
func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewCacheError("ping failed", false).WithError(err)
	}
	return nil
}

// Stats returns Redis connection pool stats
func (r *RedisCache) Stats() *redis.PoolStats {
	return r.client.PoolStats()
}

// Close closes the cache connection
func (r *RedisCache) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.client.Close()
}

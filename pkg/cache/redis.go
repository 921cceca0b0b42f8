// Package cache provides the distance cache backends: a process-local LRU
// and Redis for sharing resolutions between instances.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shiva/tripwise/config"
	"github.com/shiva/tripwise/internal/model"
)

// NewRedisClient creates a Redis client and verifies it answers PING.
//
// Timeouts are short: the cache only saves a few microseconds of work, so a
// slow Redis should fail fast and let the planner resolve directly.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  250 * time.Millisecond,
		WriteTimeout: 250 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	return client, nil
}

// HealthCheck pings the Redis client and returns nil if healthy.
func HealthCheck(ctx context.Context, client *redis.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(pingCtx).Err()
}

// ─── RedisDistanceCache ─────────────────────────────────────

const redisDistanceKeyPrefix = "distance:"

// RedisDistanceCache shares distance resolutions between planner instances.
//
// Values are JSON-encoded model.Resolution with a TTL. Keys are namespaced by
// the catalog fingerprint, so instances running a different catalog never
// read each other's entries; the TTL only reclaims entries a catalog change
// has orphaned.
type RedisDistanceCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisDistanceCache creates a Redis-backed distance cache. namespace is
// normally Catalog.Fingerprint().
func NewRedisDistanceCache(client *redis.Client, ttl time.Duration, namespace string) *RedisDistanceCache {
	return &RedisDistanceCache{
		redis:  client,
		ttl:    ttl,
		prefix: redisDistanceKeyPrefix + namespace + ":",
	}
}

// Get returns the cached resolution for key. A missing key is not an error.
func (c *RedisDistanceCache) Get(ctx context.Context, key string) (model.Resolution, bool, error) {
	raw, err := c.redis.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Resolution{}, false, nil
	}
	if err != nil {
		return model.Resolution{}, false, fmt.Errorf("redis get %q: %w", key, err)
	}

	var res model.Resolution
	if err := json.Unmarshal(raw, &res); err != nil {
		// Corrupt entry: drop it and report a miss.
		_ = c.redis.Del(ctx, c.prefix+key).Err()
		return model.Resolution{}, false, nil
	}
	return res, true, nil
}

// Set stores res under key with the configured TTL.
func (c *RedisDistanceCache) Set(ctx context.Context, key string, res model.Resolution) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode resolution: %w", err)
	}
	if err := c.redis.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (c *RedisDistanceCache) Name() string { return "redis" }

package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/redis/go-redis/v9"
)

// Cache keys shared by every process talking to the same cache server
const (
	KeyAllFacts   = "all_facts"
	KeyRandomFact = "random_fact"
)

// DefaultTTL is the lifetime of a cache entry from the moment it is written
const DefaultTTL = 60 * time.Second

// RedisCache is a thin key/value facade over a redis client
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing client. The client is owned by the caller.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// NewRedisClient builds a client from REDIS_HOST, REDIS_PORT, REDIS_PASSWORD and REDIS_DB
func NewRedisClient(cfg *utils.Config) *redis.Client {
	host := cfg.GetWithDefault("REDIS_HOST", "localhost")
	port := cfg.GetWithDefault("REDIS_PORT", "6379")

	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: cfg.Get("REDIS_PASSWORD"),
		DB:       cfg.GetIntWithDefault("REDIS_DB", 0),
	})
}

// Get returns the value stored under key. A missing or expired key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %s: %w", key, err)
	}

	return value, true, nil
}

// Set writes value under key with the given lifetime
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key succeeds.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// Ping checks that the cache server is reachable
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Addr returns the server address
func (c *RedisCache) Addr() string {
	return c.client.Options().Addr
}

// DB returns the selected logical database
func (c *RedisCache) DB() string {
	return strconv.Itoa(c.client.Options().DB)
}

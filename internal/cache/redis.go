// Package cache is the Redis connection shared by the page cache and the
// command stream publisher.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = redis.Nil

// PagePrefix namespaces the page cache's keys.
const PagePrefix = "dugout:page:"

// RedisCache stores short-lived values under a key namespace.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to redisURL and verifies the connection.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// WithPrefix returns a cache sharing the same connection whose keys are all
// prefixed with prefix.
func (rc *RedisCache) WithPrefix(prefix string) *RedisCache {
	return &RedisCache{client: rc.client, prefix: rc.prefix + prefix}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Set stores a value. A zero ttl keeps the key indefinitely.
func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, rc.prefix+key, value, ttl).Err()
}

// Get returns the stored value or ErrMiss.
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := rc.client.Get(ctx, rc.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

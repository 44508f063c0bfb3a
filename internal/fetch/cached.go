package fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageCache is the subset of the Redis cache the fetcher needs.
type PageCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CachedFetcher serves recently fetched pages from a cache and falls through
// to the wrapped fetcher on a miss. Only successful bodies are stored.
type CachedFetcher struct {
	next   Fetcher
	cache  PageCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedFetcher wraps next with a read-through page cache.
func NewCachedFetcher(next Fetcher, cache PageCache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: slog.Default().With("component", "page-cache"),
	}
}

// Fetch returns the cached body for url or fetches it.
func (c *CachedFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	key := CacheKey(url)

	body, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		c.logger.Debug("cache hit", "url", RedactURL(url))
		return body, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", "url", RedactURL(url), "error", err)
	}

	body, err = c.next.Fetch(ctx, url, headers)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "url", RedactURL(url), "error", err)
	}
	return body, nil
}

// CacheKey is the key a page is stored under, relative to the cache's
// namespace.
func CacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

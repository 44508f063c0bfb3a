package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/fortuna/dugout/internal/cache"
	"github.com/fortuna/dugout/internal/config"
	"github.com/fortuna/dugout/internal/fetch"
)

const (
	redisRetries    = 10
	redisRetryDelay = 2 * time.Second
)

func initSlog(level slog.Level) *slog.Logger {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
	return logger
}

// connectRedis retries while Redis comes up alongside the service.
func connectRedis(ctx context.Context, url string, logger *slog.Logger) (*cache.RedisCache, error) {
	var lastErr error
	for i := 0; i < redisRetries; i++ {
		rc, err := cache.NewRedisCache(url)
		if err == nil {
			return rc, nil
		}
		lastErr = err
		logger.Warn("redis connection failed", "attempt", i+1, "of", redisRetries, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(redisRetryDelay):
		}
	}
	return nil, fmt.Errorf("redis unavailable after %d attempts: %w", redisRetries, lastErr)
}

// buildFetcher assembles the outbound chain. The returned func releases
// browser resources.
func buildFetcher(cfg config.Config, rc *cache.RedisCache) (fetch.Fetcher, func()) {
	var (
		f       fetch.Fetcher
		release = func() {}
	)
	switch cfg.FetchMode {
	case config.FetchModeBrowser:
		b := fetch.NewBrowserFetcher(cfg.BrowserMinInterval, cfg.FetchTimeout)
		f, release = b, b.Close
	default:
		f = fetch.NewHTTPFetcher(cfg.FetchTimeout)
	}

	if rc != nil && cfg.PageCacheTTL > 0 {
		f = fetch.NewCachedFetcher(f, rc.WithPrefix(cache.PagePrefix), cfg.PageCacheTTL)
	}
	return f, release
}

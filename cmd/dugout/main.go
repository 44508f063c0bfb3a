package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/dugout/internal/api/rest"
	"github.com/fortuna/dugout/internal/api/websocket"
	"github.com/fortuna/dugout/internal/cache"
	"github.com/fortuna/dugout/internal/commands"
	"github.com/fortuna/dugout/internal/config"
	"github.com/fortuna/dugout/internal/pipeline"
	"github.com/fortuna/dugout/internal/publisher"
	"github.com/fortuna/dugout/internal/store/repository"
)

const (
	serviceName    = "dugout"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := initSlog(cfg.LogLevel)
	logger.Info("starting", "service", serviceName, "version", serviceVersion)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	reg, db, err := repository.OpenRegistry(ctx, cfg.RegistryDataPath)
	if err != nil {
		return err
	}
	checks := map[string]rest.HealthCheck{}
	if db != nil {
		defer db.Close()
		checks["postgres"] = db.HealthCheck
	}
	logger.Info("registry loaded", "teams", reg.Len(), "postgres", cfg.RegistryFromDatabase())

	hub := websocket.NewHub(logger)
	opts := []commands.Option{
		commands.WithLogger(logger),
		commands.WithObserver(hub),
	}

	var rc *cache.RedisCache
	if cfg.RedisURL != "" {
		rc, err = connectRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			return err
		}
		defer rc.Close()
		checks["redis"] = rc.HealthCheck

		pub := publisher.NewRedisStreamPublisher(rc.Client(), cfg.CommandStream)
		opts = append(opts, commands.WithObserver(pub))
		logger.Info("connected to redis", "stream", pub.Stream(), "page_cache_ttl", cfg.PageCacheTTL)
	}

	fetcher, release := buildFetcher(cfg, rc)
	defer release()

	p := pipeline.New(reg, fetcher, pipeline.Options{
		LogOutboundURLs: cfg.LogOutboundURLs,
		APIKeys:         cfg.ProviderAPIKeys,
		Logger:          logger,
	})
	dispatcher := commands.NewDispatcher(p, opts...)

	restServer := rest.NewServer(cfg.RESTPort, reg, dispatcher, rest.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		CommandRateLimit: cfg.CommandRateLimit,
		HealthChecks:     checks,
		Logger:           logger,
	})
	wsServer := websocket.NewServer(ctx, hub, cfg.CORSAllowOrigins)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("rest api listening", "port", cfg.RESTPort, "fetch_mode", cfg.FetchMode)
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := wsServer.Start(cfg.WSPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("rest shutdown", "error", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("websocket shutdown", "error", err)
	}
	return nil
}

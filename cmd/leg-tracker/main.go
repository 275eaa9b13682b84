package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/cache"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/config"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/hub"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/legs"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/logging"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/poller"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/providers/espn"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/reconcile"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/registry"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/retry"
	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/contracts"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	module, err := registry.New().ForSportPath(cfg.Feed.SportPath)
	if err != nil {
		logger.Fatal("unsupported sport", zap.Error(err))
	}
	cfg.ApplyPollingDefaults(module.DefaultPollingConfig())

	// Initialize components
	feed := espn.New(cfg.Feed.SportPath,
		espn.WithBaseURL(cfg.Feed.BaseURL),
		espn.WithHTTPClient(&http.Client{Timeout: cfg.Feed.FetchTimeout}),
		espn.WithRetry(retry.NewRetryPolicy(cfg.Feed.Attempts, cfg.Feed.RetryDelay)),
		espn.WithLogger(logger.Named("espn")),
	)
	engine := reconcile.NewEngine(module, feed, logger.Named("reconcile"), reconcile.WithFetchTimeout(cfg.Feed.FetchTimeout))
	store := legs.NewStore(module)

	wsHub := hub.NewHub(logger)
	go wsHub.Run(ctx)

	sinks := []contracts.SnapshotSink{wsHub}
	if cfg.Redis.Enabled() {
		redisClient, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, snapshots will not be mirrored", zap.Error(err))
		} else {
			defer redisClient.Close()
			sinks = append(sinks,
				cache.NewRedisWriter(redisClient, cfg.Redis.SnapshotTTL),
				publisher.NewStreamPublisher(redisClient),
			)
			logger.Info("connected to redis", zap.String("addr", redisClient.Options().Addr))
		}
	}

	legPoller := poller.New(engine, store, module, cfg.Poll.Interval, logger.Named("poller"), sinks...)
	if err := legPoller.Start(ctx); err != nil {
		logger.Fatal("failed to start poller", zap.Error(err))
	}

	handler := handlers.NewHandler(ctx, store, legPoller, wsHub, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handlers.NewRouter(handler, cfg.Server.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("leg tracker listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("sport", module.GetSportKey()),
			zap.Duration("poll_interval", cfg.Poll.Interval),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	legPoller.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	cancel()

	logger.Info("leg tracker stopped")
}

// connectRedis accepts either a redis:// URL or a bare host:port
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(cfg.URL, "://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

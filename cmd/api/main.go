package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/tilestudio-il/tilestudio-backend/api/middleware"
	"github.com/tilestudio-il/tilestudio-backend/api/routes"
	"github.com/tilestudio-il/tilestudio-backend/internal/catalog"
	"github.com/tilestudio-il/tilestudio-backend/internal/content"
	"github.com/tilestudio-il/tilestudio-backend/internal/cron"
	"github.com/tilestudio-il/tilestudio-backend/internal/quotes"
	"github.com/tilestudio-il/tilestudio-backend/pkg/cloudinary"
	"github.com/tilestudio-il/tilestudio-backend/pkg/config"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
	"github.com/tilestudio-il/tilestudio-backend/pkg/metrics"
	"github.com/tilestudio-il/tilestudio-backend/pkg/ratelimit"
	"github.com/tilestudio-il/tilestudio-backend/pkg/redis"
)

const (
	shutdownTimeout = 10 * time.Second
	syncLockName    = "catalog-sync"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var closers []func() error

	var limiterStore middleware.RateLimitStore
	var syncLock cron.Lock = cron.NoopLock{}
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		limiterStore = redisClient

		syncLock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(syncLockName), 0)
		if err != nil {
			logg.Error(context.Background(), "failed to create sync lock", err)
			os.Exit(1)
		}
	} else {
		logg.Info(context.Background(), "redis not configured, using in-process rate limiter")
		limiterStore = ratelimit.NewMemoryStore()
	}

	var host catalog.ImageHost
	if cfg.Cloud.Configured() {
		client, err := cloudinary.NewClient(cfg.Cloud)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap image host client", err)
			os.Exit(1)
		}
		host = client
	} else {
		logg.Info(context.Background(), "image host not configured, catalog serves seeded photos only")
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Store:        catalog.NewStore(),
		Host:         host,
		Logger:       logg,
		SyncMaxAge:   cfg.Catalog.SyncMaxAge,
		SyncPageSize: cfg.Catalog.SyncPageSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	quoteRepo := quotes.NewFileRepository(cfg.Data.SubmissionsDir())
	quoteService := quotes.NewService(quotes.ServiceParams{
		Repo:   quoteRepo,
		Logger: logg,
	})

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// The catalog sync loop runs in-process so its results land in the
	// same store the HTTP layer serves from. The Redis lock keeps the
	// host listing to one instance per cycle in multi-instance deploys.
	syncJob, err := catalog.NewSyncJob(logg, catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync job", err)
		os.Exit(1)
	}
	syncService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(syncJob),
		Lock:     syncLock,
		Metrics:  metrics.NewJobMetrics(registry),
		Interval: cfg.SyncWork.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync loop", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		CatalogService: catalogService,
		QuoteService:   quoteService,
		QuoteRepo:      quoteRepo,
		ContentService: content.NewService(cfg.Data.Dir),
		RateLimitStore: limiterStore,
		HTTPMetrics:    httpMetrics,
		PromGatherer:   registry,
		StartedAt:      time.Now(),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := syncService.Run(stopCtx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "catalog sync loop stopped unexpectedly", err)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeErr := server.Shutdown(shutdownCtx)
	for _, closer := range closers {
		closeErr = multierr.Append(closeErr, closer())
	}
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wellvision/wellvision/internal/analytics"
	"github.com/wellvision/wellvision/internal/app"
	"github.com/wellvision/wellvision/internal/billing"
	"github.com/wellvision/wellvision/internal/customers"
	"github.com/wellvision/wellvision/internal/observability"
	"github.com/wellvision/wellvision/internal/platform/cache"
	"github.com/wellvision/wellvision/internal/platform/db"
	"github.com/wellvision/wellvision/internal/sequence"
	"github.com/wellvision/wellvision/internal/shared"
	"github.com/wellvision/wellvision/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, dbpool); err != nil {
			logger.Error("apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Dashboard caching degrades to direct queries; the redis sequence backend cannot.
		if cfg.SequenceBackend == app.BackendRedis {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()

	store, err := sequenceStore(cfg, dbpool, redisClient)
	if err != nil {
		logger.Error("sequence store", slog.Any("error", err))
		os.Exit(1)
	}
	store = sequence.WithRecorder(store, metrics)
	logger.Info("sequence store ready", slog.String("backend", cfg.SequenceBackend))

	validate := shared.NewValidator()

	var dashboardCache *analytics.Cache
	if redisClient != nil {
		dashboardCache = analytics.NewCache(redisClient, cfg.DashboardCacheTTL, logger)
	}
	analyticsService := analytics.NewService(analytics.NewRepository(dbpool), dashboardCache, logger)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	var (
		jobClient *jobs.Client
		inspector *asynq.Inspector
	)
	if redisClient != nil {
		jobClient = jobs.NewClient(redisOpts)
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		inspector = asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
	}
	invalidator := jobs.NewWarmingInvalidator(analyticsService, jobClient, cfg.WarmupDebounce, logger)

	billingService := billing.NewService(billing.NewRepository(dbpool), store, billing.ServiceConfig{
		Formatter:   cfg.BillNoFormatter(),
		Recorder:    metrics,
		Invalidator: invalidator,
		Logger:      logger,
		Validator:   validate,
	})
	customerService := customers.NewService(customers.NewRepository(dbpool), validate, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		BillingHandler:   billing.NewHandler(logger, billingService),
		CustomerHandler:  customers.NewHandler(logger, customerService),
		AnalyticsHandler: analytics.NewHandler(logger, analyticsService),
		JobHandler:       jobs.NewHandler(inspector, logger),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func sequenceStore(cfg *app.Config, pool *pgxpool.Pool, client *redis.Client) (sequence.Store, error) {
	switch cfg.SequenceBackend {
	case app.BackendPostgres:
		return sequence.NewPostgresStore(pool), nil
	case app.BackendRedis:
		if client == nil {
			return nil, errors.New("redis backend selected but redis is unavailable")
		}
		return sequence.NewRedisStore(client, ""), nil
	case app.BackendMemory:
		return sequence.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown sequence backend %q", cfg.SequenceBackend)
	}
}

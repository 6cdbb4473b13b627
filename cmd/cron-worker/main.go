package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marcosalvarado/buildledger-backend/internal/cron"
	"github.com/marcosalvarado/buildledger-backend/internal/quickbooks"
	"github.com/marcosalvarado/buildledger-backend/internal/quotes"
	"github.com/marcosalvarado/buildledger-backend/pkg/config"
	"github.com/marcosalvarado/buildledger-backend/pkg/db"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/metrics"
	"github.com/marcosalvarado/buildledger-backend/pkg/migrate"
	"github.com/marcosalvarado/buildledger-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.NewClient(cfg.DB)
	requireResource(logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.NewClient(cfg.Redis)
	requireResource(logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	metricsCollector := metrics.NewCronMetrics(prometheus.DefaultRegisterer)

	env := cfg.App.Env
	if env == "" {
		env = "local"
	}
	lock, err := cron.NewRedisLock(redisClient, redisClient.Key("cron-worker", "lock", env), cfg.Cron.LockTTL)
	requireResource(logg, "cron lock", err)

	quotesSvc, err := quotes.NewService(quotes.NewRepository(dbClient.Gorm()))
	requireResource(logg, "quotes service", err)

	quickbooksSvc, err := quickbooks.NewService(quickbooks.NewRepository(dbClient.Gorm()))
	requireResource(logg, "quickbooks service", err)

	quoteExpiration, err := cron.NewQuoteExpirationJob(quotesSvc, logg, metricsCollector)
	requireResource(logg, "quote expiration job", err)

	retention := time.Duration(cfg.Cron.SyncRetentionDays) * 24 * time.Hour
	syncRetention, err := cron.NewSyncRetentionJob(quickbooksSvc, logg, metricsCollector, retention)
	requireResource(logg, "sync retention job", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(quoteExpiration, syncRetention),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	requireResource(logg, "cron service", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}

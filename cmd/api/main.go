package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/marcosalvarado/buildledger-backend/api/routes"
	"github.com/marcosalvarado/buildledger-backend/internal/changeorders"
	"github.com/marcosalvarado/buildledger-backend/internal/clients"
	"github.com/marcosalvarado/buildledger-backend/internal/estimates"
	"github.com/marcosalvarado/buildledger-backend/internal/expenses"
	"github.com/marcosalvarado/buildledger-backend/internal/projects"
	"github.com/marcosalvarado/buildledger-backend/internal/quickbooks"
	"github.com/marcosalvarado/buildledger-backend/internal/quotes"
	"github.com/marcosalvarado/buildledger-backend/internal/recent"
	"github.com/marcosalvarado/buildledger-backend/internal/timeentries"
	"github.com/marcosalvarado/buildledger-backend/pkg/config"
	"github.com/marcosalvarado/buildledger-backend/pkg/db"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/migrate"
	"github.com/marcosalvarado/buildledger-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	idemStore := redis.NewIdempotencyStore(redisClient, cfg.Idempotency.TTL)
	recentStore, err := recent.NewStore(redisClient, cfg.Recent.MaxEntries, cfg.Recent.TTL)
	requireResource(logg, "recent store", err)

	gormDB := dbClient.Gorm()

	clientsSvc, err := clients.NewService(clients.NewRepository(gormDB))
	requireResource(logg, "clients service", err)

	projectsSvc, err := projects.NewService(projects.NewRepository(gormDB))
	requireResource(logg, "projects service", err)

	estimatesSvc, err := estimates.NewService(estimates.ServiceParams{
		Repo: estimates.NewRepository(gormDB),
		DB:   dbClient,
	})
	requireResource(logg, "estimates service", err)

	quotesSvc, err := quotes.NewService(quotes.NewRepository(gormDB))
	requireResource(logg, "quotes service", err)

	changeOrdersSvc, err := changeorders.NewService(changeorders.NewRepository(gormDB))
	requireResource(logg, "change orders service", err)

	expensesSvc, err := expenses.NewService(expenses.NewRepository(gormDB))
	requireResource(logg, "expenses service", err)

	timeEntriesSvc, err := timeentries.NewService(timeentries.NewRepository(gormDB))
	requireResource(logg, "time entries service", err)

	quickbooksSvc, err := quickbooks.NewService(quickbooks.NewRepository(gormDB))
	requireResource(logg, "quickbooks service", err)

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
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, idemStore, recentStore, routes.Services{
			Clients:      clientsSvc,
			Projects:     projectsSvc,
			Estimates:    estimatesSvc,
			Quotes:       quotesSvc,
			ChangeOrders: changeOrdersSvc,
			Expenses:     expensesSvc,
			TimeEntries:  timeEntriesSvc,
			QuickBooks:   quickbooksSvc,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}

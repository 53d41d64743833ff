package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/campuslend/campuslend-backend/api/routes"
	"github.com/campuslend/campuslend-backend/internal/inventory"
	"github.com/campuslend/campuslend-backend/internal/lifecycle"
	"github.com/campuslend/campuslend-backend/internal/notifications"
	"github.com/campuslend/campuslend-backend/internal/reparations"
	"github.com/campuslend/campuslend-backend/internal/requests"
	"github.com/campuslend/campuslend-backend/pkg/config"
	"github.com/campuslend/campuslend-backend/pkg/db"
	"github.com/campuslend/campuslend-backend/pkg/logger"
	"github.com/campuslend/campuslend-backend/pkg/metrics"
	"github.com/campuslend/campuslend-backend/pkg/migrate"
	"github.com/campuslend/campuslend-backend/pkg/outbox"
	pkgredis "github.com/campuslend/campuslend-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	lifecycleMetrics := metrics.NewLifecycleMetrics(promRegistry)

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	engine, err := lifecycle.NewService(lifecycle.NewRepository(dbClient.DB()), dbClient, outboxSvc, logg, lifecycleMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle engine", err)
		os.Exit(1)
	}

	requestsSvc, err := requests.NewService(requests.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	inventorySvc, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	reparationsSvc, err := reparations.NewService(reparations.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create reparations service", err)
		os.Exit(1)
	}

	notificationsSvc, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Registry:      promRegistry,
			Lifecycle:     engine,
			Requests:      requestsSvc,
			Inventory:     inventorySvc,
			Reparations:   reparationsSvc,
			Notifications: notificationsSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

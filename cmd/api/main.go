package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/slideforge/slideforge-backend/api/routes"
	"github.com/slideforge/slideforge-backend/internal/auth"
	"github.com/slideforge/slideforge-backend/internal/elements"
	"github.com/slideforge/slideforge-backend/internal/export"
	"github.com/slideforge/slideforge-backend/internal/presentations"
	"github.com/slideforge/slideforge-backend/internal/slides"
	"github.com/slideforge/slideforge-backend/internal/users"
	"github.com/slideforge/slideforge-backend/pkg/config"
	"github.com/slideforge/slideforge-backend/pkg/db"
	"github.com/slideforge/slideforge-backend/pkg/logger"
	"github.com/slideforge/slideforge-backend/pkg/metrics"
	"github.com/slideforge/slideforge-backend/pkg/migrate"
	"github.com/slideforge/slideforge-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	presentationService, err := presentations.NewService(presentations.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create presentations service", err)
		os.Exit(1)
	}

	slideService, err := slides.NewService(slides.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create slides service", err)
		os.Exit(1)
	}

	elementService, err := elements.NewService(elements.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create elements service", err)
		os.Exit(1)
	}

	exportService, err := export.NewService(export.ServiceParams{
		DB:     dbClient,
		Config: cfg.Export,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create export service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(routes.Params{
			Config:        cfg,
			Logger:        logg,
			DBPinger:      dbClient,
			Redis:         redisClient,
			Registry:      registry,
			HTTPMetrics:   httpMetrics,
			Users:         userRepo,
			AuthSvc:       authService,
			RegisterSvc:   registerService,
			Presentations: presentationService,
			Slides:        slideService,
			Elements:      elementService,
			Export:        exportService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

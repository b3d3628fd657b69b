package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/gram-panchayat/panchayat-service/internal/api/http"
	"github.com/gram-panchayat/panchayat-service/internal/api/http/handlers"
	"github.com/gram-panchayat/panchayat-service/internal/auth"
	"github.com/gram-panchayat/panchayat-service/internal/config"
	"github.com/gram-panchayat/panchayat-service/internal/events"
	"github.com/gram-panchayat/panchayat-service/internal/observability"
	"github.com/gram-panchayat/panchayat-service/internal/persistence"
	"github.com/gram-panchayat/panchayat-service/internal/repository"
	"github.com/gram-panchayat/panchayat-service/internal/service"
	"github.com/gram-panchayat/panchayat-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.EphemeralSecret {
		logger.Warn("AUTH_JWT_SECRET not set; using an ephemeral signing secret, sessions will not survive a restart")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	pool := pg.PoolHandle()
	citizenRepo := repository.NewCitizenRepository(pool)
	monitorRepo := repository.NewMonitorRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	revocationRepo := repository.NewRevocationRepository(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger, metrics, cfg.Audit)
	worker.StartAuditWorker(auditService)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Accounts:    repository.NewAccountDirectory(citizenRepo, monitorRepo, adminRepo),
		Citizens:    citizenRepo,
		Monitors:    monitorRepo,
		Revocations: revocationRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	cookie := auth.CookieSettings{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure}
	gate := auth.NewAccessGate(authService.TokenManager(), revocationRepo, auth.DefaultAreaPolicy())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, CaseSensitive: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cookie, logger, metrics),
		Admin:          handlers.NewAdminHandler(authService, logger, metrics),
		Dashboard:      handlers.NewDashboardHandler(),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), revocationRepo, cookie),
		Gate:           auth.GateMiddleware(gate, cookie, metrics, logger),
		Policy:         gate.Policy(),
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

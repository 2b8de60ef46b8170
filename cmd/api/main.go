package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/healthcare-accounts/internal/api/http"
	"github.com/spec-kit/healthcare-accounts/internal/api/http/handlers"
	"github.com/spec-kit/healthcare-accounts/internal/auth"
	"github.com/spec-kit/healthcare-accounts/internal/config"
	"github.com/spec-kit/healthcare-accounts/internal/events"
	"github.com/spec-kit/healthcare-accounts/internal/observability"
	"github.com/spec-kit/healthcare-accounts/internal/persistence"
	"github.com/spec-kit/healthcare-accounts/internal/repository"
	"github.com/spec-kit/healthcare-accounts/internal/service"
	"github.com/spec-kit/healthcare-accounts/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	providerRepo := repository.NewProviderRepository(pool)
	patientRepo := repository.NewPatientRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		ProviderRepo: providerRepo,
		PatientRepo:  patientRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	accountService := service.NewAccountService(patientRepo, dispatcher, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), providerRepo, patientRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var loginLimiter fiber.Handler
	if cfg.RateLimit.Enabled {
		loginLimiter = httptransport.LoginRateLimiter(
			redis.Handle(), cfg.RateLimit.LoginAttempts, cfg.RateLimit.Window(), logger)
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Providers:      handlers.NewProvidersHandler(authService),
		Patients:       handlers.NewPatientsHandler(authService, accountService),
		AuthMiddleware: authMiddleware,
		LoginLimiter:   loginLimiter,
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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auth-service/internal/api/http"
	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/persistence"
	"github.com/spec-kit/auth-service/internal/repository"
	"github.com/spec-kit/auth-service/internal/service"
	"github.com/spec-kit/auth-service/internal/worker"
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

	signingKey, err := auth.NewSigningKey(cfg.Auth.SigningSecret)
	if err != nil {
		logger.Fatal("invalid signing secret", zap.Error(err))
	}
	logger.Info("token signing configured", zap.String("alg", signingKey.Algorithm()), zap.Duration("ttl", cfg.Auth.TokenTTL))

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var userRepo repository.UserRepository
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pg.PoolHandle())
	} else {
		userRepo = repository.NewMemoryUserRepository()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var principals auth.PrincipalStore = userRepo
	if redis.Enabled() {
		principals = repository.NewPrincipalCache(userRepo, redis.Client, cfg.Redis.PrincipalCacheTTL, logger)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger, metrics)

	tokens := auth.NewTokenManager(signingKey, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Hasher:     auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	filter := auth.NewFilter(authService.TokenManager(), principals, cfg.Auth.PublicPaths, logger, metrics)
	authMiddleware := auth.NewAuthMiddleware(filter)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout)

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
		"postgres": pg,
		"redis":    redis,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:                healthHandler,
		Auth:                  handlers.NewAuthHandler(authService),
		Users:                 handlers.NewUsersHandler(logger),
		AuthMiddleware:        authMiddleware,
		UnauthenticatedStatus: cfg.Auth.UnauthenticatedStatus,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete", zap.Any("metrics", metrics.Snapshot()))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

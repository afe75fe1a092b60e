package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/pizza-service/internal/api/http"
	"github.com/spec-kit/pizza-service/internal/api/http/handlers"
	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/config"
	"github.com/spec-kit/pizza-service/internal/events"
	"github.com/spec-kit/pizza-service/internal/factory"
	"github.com/spec-kit/pizza-service/internal/observability"
	"github.com/spec-kit/pizza-service/internal/persistence"
	"github.com/spec-kit/pizza-service/internal/repository"
	"github.com/spec-kit/pizza-service/internal/service"
	"github.com/spec-kit/pizza-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	readiness := map[string]handlers.Pinger{"postgres": pg}
	pool := pg.PoolHandle()

	var sessions auth.SessionStore
	switch cfg.Auth.SessionBackend {
	case config.SessionBackendRedis:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		readiness["redis"] = redis
		sessions = repository.NewRedisSessionStore(redis.Client, redis.KeyPrefix, cfg.Auth.TokenTTL())
	case config.SessionBackendMemory:
		logger.Warn("using in-memory session store; sessions do not survive restarts")
		sessions = repository.NewMemorySessionStore()
	default:
		sessions = repository.NewPostgresSessionStore(pool)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry, cfg.Metrics.Source)
	dispatcher := events.NewInMemoryDispatcher(logger)

	userRepo := repository.NewUserRepository(pool)
	tokens := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Sessions:   sessions,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}
	franchiseService := service.NewFranchiseService(service.FranchiseDependencies{
		FranchiseRepo: repository.NewFranchiseRepository(pool),
		UserRepo:      userRepo,
		Logger:        logger,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  repository.NewOrderRepository(pool),
		Factory:    factory.NewClient(cfg.Factory, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	exporter := observability.NewExporter(metrics, cfg.Metrics, logger)
	if err := worker.StartMetricsWorker(service.NewMetricsRecorder(dispatcher, metrics, logger), exporter); err != nil {
		logger.Fatal("failed to start metrics worker", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Auth:       handlers.NewAuthHandler(authService),
		Franchises: handlers.NewFranchiseHandler(franchiseService),
		Orders:     handlers.NewOrderHandler(orderService),
		Gate:       auth.NewGate(tokens, sessions, logger),
		Metrics:    metrics,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("session_backend", cfg.Auth.SessionBackend))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		exporter.Stop(shutdownCtx)
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.Error(err))
	}
}

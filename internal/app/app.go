package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/romankud/kinotix/internal/config"
	"github.com/romankud/kinotix/internal/postgres"
	"github.com/romankud/kinotix/internal/queue"
	redisx "github.com/romankud/kinotix/internal/redis"
	postgresrepo "github.com/romankud/kinotix/internal/repository/postgres"
	redisrepo "github.com/romankud/kinotix/internal/repository/redis"
	"github.com/romankud/kinotix/internal/service"
	"github.com/romankud/kinotix/internal/service/ordering"
	httpgin "github.com/romankud/kinotix/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	publisher  *queue.Publisher
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	if err := postgres.Migrate(context.Background(), pgxPool); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// AMQP is optional: without a broker purchases still work, the
	// downstream notifications just never fire.
	var publisher *queue.Publisher
	var notifier ordering.Notifier
	if cfg.AMQP.URL != "" {
		publisher, err = queue.NewPublisher(cfg.AMQP.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize amqp publisher: %w", err)
		}
		notifier = publisher
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewScreeningsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, redisx.KeyRateLimit("cart"), cfg.RateLimit.Limit, cfg.RateLimit.Window)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Initialize services
	services := service.NewServices(
		service.Stores{
			Catalog:    store.Catalog(),
			Scheduling: store.Scheduling(),
			Ordering:   store.Ordering(),
			Account:    store.Users(),
			Query:      store.Query(cfg.Schedule.SessionBreak),
		},
		service.Options{
			Cache:        cache,
			Events:       pubsub,
			Notifier:     notifier,
			Limiter:      limiter,
			SessionBreak: cfg.Schedule.SessionBreak,
		},
	)

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		publisher: publisher,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if a.publisher != nil {
			_ = a.publisher.Close()
		}

		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

// Package app wires configuration, storage, transport, and services into a
// running process.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/quillcheck/quillcheck-backend/internal/adapter/postgres"
	dictrepo "github.com/quillcheck/quillcheck-backend/internal/adapter/postgres/dictionary"
	outboxrepo "github.com/quillcheck/quillcheck-backend/internal/adapter/postgres/outbox"
	projectionrepo "github.com/quillcheck/quillcheck-backend/internal/adapter/postgres/projection"
	"github.com/quillcheck/quillcheck-backend/internal/adapter/stream"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/cache"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/engine"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/mapper"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/style"
	"github.com/quillcheck/quillcheck-backend/internal/config"
	"github.com/quillcheck/quillcheck-backend/internal/outbox"
	analysissvc "github.com/quillcheck/quillcheck-backend/internal/service/analysis"
	dictsvc "github.com/quillcheck/quillcheck-backend/internal/service/dictionary"
	identitysvc "github.com/quillcheck/quillcheck-backend/internal/service/identity"
)

// Run is the application entry point: it loads configuration, connects to
// PostgreSQL and Redis, wires the services, and runs the outbox relay and
// identity consumer until a termination signal arrives.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := postgres.Migrate(cfg.Database.DSN); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	redisClient, err := stream.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()

	// Storage layer.
	txManager := postgres.NewTxManager(pool)
	wordRepo := dictrepo.New(pool)
	outboxRepo := outboxrepo.New(pool)
	projectionRepo := projectionrepo.New(pool)

	// Services.
	dictService := dictsvc.NewService(logger, wordRepo, outboxRepo, txManager, projectionRepo, cfg.Dictionary)
	identityService := identitysvc.NewService(logger, projectionRepo, dictService, txManager)

	checker := engine.Select(logger, engine.Config{
		WordlistPath: cfg.Analysis.WordlistPath,
		MinTokenLen:  cfg.Analysis.MinTokenLen,
	})
	analysisService := analysissvc.NewService(
		logger,
		checker,
		cache.New(cfg.Analysis.CacheSize, cfg.Analysis.CacheTTL),
		mapper.New(logger),
		style.NewEngine(logger),
		dictService,
		cfg.Analysis,
	)

	// Event plumbing.
	publisher := stream.NewPublisher(redisClient, cfg.Redis.DictStream, cfg.Redis.EventSource)
	relay := outbox.NewRelay(logger, outboxRepo, publisher, txManager, cfg.Outbox)
	consumer := stream.NewConsumer(logger, redisClient, cfg.Consumer, identityService.ApplyEvent)

	health := NewHealthRegistry()
	registerProbes(health, pool, redisClient, analysisService,
		relay, consumer, cfg.Outbox.PollInterval, cfg.Consumer.BlockTimeout)

	logger.Info("application ready",
		slog.String("checker", analysisService.CheckerName()),
		slog.String("dict_stream", cfg.Redis.DictStream),
		slog.String("consumer_stream", cfg.Consumer.Stream),
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return relay.Run(gCtx) })
	g.Go(func() error { return consumer.Run(gCtx) })

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("application stopped")
	return nil
}

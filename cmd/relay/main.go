// Command relay runs only the outbox relay: it claims unpublished outbox
// rows and emits them to the dictionary event stream. Use it to drain a
// backlog or to run publishing separately from the main server.
//
// Flags:
//
//	--once  relay a single batch and exit instead of polling
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/quillcheck/quillcheck-backend/internal/adapter/postgres"
	outboxrepo "github.com/quillcheck/quillcheck-backend/internal/adapter/postgres/outbox"
	"github.com/quillcheck/quillcheck-backend/internal/adapter/stream"
	"github.com/quillcheck/quillcheck-backend/internal/app"
	"github.com/quillcheck/quillcheck-backend/internal/config"
	"github.com/quillcheck/quillcheck-backend/internal/outbox"
)

func main() {
	onceFlag := flag.Bool("once", false, "relay a single batch and exit")
	flag.Parse()

	if err := run(*onceFlag); err != nil {
		log.Fatalf("relay: %v", err)
	}
}

func run(once bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := stream.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	relay := outbox.NewRelay(
		logger,
		outboxrepo.New(pool),
		stream.NewPublisher(redisClient, cfg.Redis.DictStream, cfg.Redis.EventSource),
		postgres.NewTxManager(pool),
		cfg.Outbox,
	)

	if once {
		count, err := relay.RelayOnce(ctx)
		if err != nil {
			return err
		}
		logger.Info("batch relayed", slog.Int("count", count))
		return nil
	}
	return relay.Run(ctx)
}

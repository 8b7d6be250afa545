// Package outbox runs the relay side of the transactional outbox: it polls
// for unpublished rows, emits them to the event stream, and marks them
// published. Emit and mark are not atomic, so delivery is at least once;
// consumers must tolerate duplicates.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/quillcheck/quillcheck-backend/internal/config"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

type repo interface {
	ClaimUnpublished(ctx context.Context, limit int) ([]*domain.OutboxRow, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, publishedAt time.Time) error
	PurgePublished(ctx context.Context, olderThan time.Time) (int64, error)
}

type publisher interface {
	Publish(ctx context.Context, row *domain.OutboxRow) (string, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// gcInterval is how often published rows past retention are purged.
const gcInterval = 10 * time.Minute

// Relay polls the outbox and publishes claimed rows.
type Relay struct {
	log       *slog.Logger
	repo      repo
	publisher publisher
	tx        txManager
	cfg       config.OutboxConfig

	published atomic.Int64
	lastTick  atomic.Int64 // unix nanos of the last successful RelayOnce
}

// NewRelay creates a relay.
func NewRelay(logger *slog.Logger, repo repo, publisher publisher, tx txManager, cfg config.OutboxConfig) *Relay {
	return &Relay{
		log:       logger.With("component", "outbox_relay"),
		repo:      repo,
		publisher: publisher,
		tx:        tx,
		cfg:       cfg,
	}
}

// Run polls until ctx is cancelled. Poll failures are logged and retried on
// the next tick; rows stay unpublished until a tick succeeds.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	gc := time.NewTicker(gcInterval)
	defer gc.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.log.Error("relay tick failed", "error", err)
			}
		case <-gc.C:
			if err := r.purge(ctx); err != nil {
				r.log.Error("outbox purge failed", "error", err)
			}
		}
	}
}

// RelayOnce claims one batch, publishes it, and marks it published, all
// under one claiming transaction. Returns the number of rows published.
// A publish failure aborts the batch; claimed rows unlock on rollback and
// are retried next tick.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var count int
	err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		rows, err := r.repo.ClaimUnpublished(txCtx, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("claim: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(rows))
		for _, row := range rows {
			entryID, err := r.publisher.Publish(ctx, row)
			if err != nil {
				return fmt.Errorf("publish %s: %w", row.ID, err)
			}
			r.log.Debug("event published",
				"outbox_id", row.ID,
				"event_type", row.EventType,
				"entry", entryID)
			ids = append(ids, row.ID)
		}

		if err := r.repo.MarkPublished(txCtx, ids, time.Now().UTC()); err != nil {
			return fmt.Errorf("mark published: %w", err)
		}
		count = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.lastTick.Store(time.Now().UnixNano())
	if count > 0 {
		r.published.Add(int64(count))
		r.log.Info("outbox batch relayed", "count", count)
	}
	return count, nil
}

// Published returns the number of rows relayed since start.
func (r *Relay) Published() int64 {
	return r.published.Load()
}

// LastTick reports when the relay last completed a tick, successful claims
// included even when the batch was empty. The zero time means no tick has
// completed yet.
func (r *Relay) LastTick() time.Time {
	n := r.lastTick.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func (r *Relay) purge(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-r.cfg.Retention)
	purged, err := r.repo.PurgePublished(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		r.log.Info("published outbox rows purged", "count", purged, "cutoff", cutoff)
	}
	return nil
}

package app

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	analysissvc "github.com/quillcheck/quillcheck-backend/internal/service/analysis"
)

const probeTimeout = 2 * time.Second

// relayTicker and streamReader expose the liveness markers of the background
// workers without tying the probes to the concrete types.
type relayTicker interface {
	LastTick() time.Time
}

type streamReader interface {
	LastRead() time.Time
}

// stalenessStatus maps a worker liveness marker to a component status. A
// zero marker means the worker has not completed a cycle yet, which is
// expected right after startup and reported as degraded rather than down.
func stalenessStatus(last time.Time, maxLag time.Duration) ComponentStatus {
	switch {
	case last.IsZero():
		return StatusDegraded
	case time.Since(last) > maxLag:
		return StatusDown
	default:
		return StatusOK
	}
}

func registerProbes(
	health *HealthRegistry,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	analysis *analysissvc.Service,
	relay relayTicker,
	consumer streamReader,
	relayPoll, consumerBlock time.Duration,
) {
	health.Register("dictionaryStore", func(ctx context.Context) ComponentStatus {
		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			return StatusDown
		}
		return StatusOK
	})

	health.Register("analysisEngine", func(context.Context) ComponentStatus {
		// The fallback checker works but only flags its curated table.
		if analysis.CheckerName() == "fallback" {
			return StatusDegraded
		}
		return StatusOK
	})

	// A wedged relay stops ticking even while its dependencies stay
	// reachable, so the probe watches the tick marker rather than pinging
	// anything. Several missed polls in a row count as down.
	health.Register("outboxRelay", func(context.Context) ComponentStatus {
		return stalenessStatus(relay.LastTick(), 3*relayPoll)
	})

	// The consumer is down when its transport is unreachable or when its
	// read loop has stalled past a few block cycles.
	health.Register("eventConsumer", func(ctx context.Context) ComponentStatus {
		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return StatusDown
		}
		return stalenessStatus(consumer.LastRead(), 3*consumerBlock)
	})
}

package stream

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillcheck/quillcheck-backend/internal/config"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return srv, client
}

func testConsumerConfig() config.ConsumerConfig {
	return config.ConsumerConfig{
		Stream:           "identity.user.v1",
		Group:            "quillcheck",
		ConsumerName:     "quillcheck-test",
		DeadLetterStream: "identity.user.v1.dlq",
		// Negative block makes reads non-blocking so the loop spins on
		// ctx instead of parking inside redis.
		BlockTimeout: -time.Millisecond,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------------
// Publisher
// ---------------------------------------------------------------------------

func TestPublisherWritesEnvelopeFields(t *testing.T) {
	_, client := setupRedis(t)
	pub := NewPublisher(client, "quillcheck.dict.v1", "quillcheck")

	row := &domain.OutboxRow{
		ID:            uuid.New(),
		EventType:     domain.EventDictUpdated,
		AggregateType: domain.AggregateDictionary,
		AggregateID:   "acc=7",
		Payload:       []byte(`{"scopeKey":"acc=7","added":["acme"],"wordCount":1}`),
		CreatedAt:     time.Now().UTC(),
	}

	entryID, err := pub.Publish(context.Background(), row)
	require.NoError(t, err)
	require.NotEmpty(t, entryID)

	entries, err := client.XRange(context.Background(), "quillcheck.dict.v1", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, row.ID.String(), values["event_id"])
	assert.Equal(t, domain.EventDictUpdated, values["event_type"])
	assert.Equal(t, "acc=7", values["aggregate_id"])
	assert.Equal(t, "quillcheck", values["source"])
	assert.Equal(t, row.CreatedAt.Format(time.RFC3339Nano), values["occurred_at"])
	assert.JSONEq(t, string(row.Payload), values["payload"].(string))
}

// ---------------------------------------------------------------------------
// Consumer
// ---------------------------------------------------------------------------

func addIdentityEntry(t *testing.T, client *redis.Client, values map[string]any) {
	t.Helper()
	err := client.XAdd(context.Background(), &redis.XAddArgs{
		Stream: "identity.user.v1",
		Values: values,
	}).Err()
	require.NoError(t, err)
}

func runConsumer(t *testing.T, consumer *Consumer, done func() bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_ = consumer.Run(ctx)
	}()

	deadline := time.Now().Add(4 * time.Second)
	for !done() {
		if time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-finished
	require.True(t, done(), "consumer did not reach expected state in time")
}

func TestConsumerDeliversAndAcks(t *testing.T) {
	_, client := setupRedis(t)

	addIdentityEntry(t, client, map[string]any{
		"event_id":   "evt-1",
		"account_id": "7",
		"status":     "active",
		"seq":        "1",
		"profile":    `{"plan":"pro"}`,
	})

	var got []domain.IdentityEvent
	handler := func(_ context.Context, event domain.IdentityEvent) error {
		got = append(got, event)
		return nil
	}

	consumer := NewConsumer(discardLogger(), client, testConsumerConfig(), handler)
	runConsumer(t, consumer, func() bool { return len(got) == 1 })

	assert.Equal(t, "evt-1", got[0].EventID)
	assert.Equal(t, "7", got[0].AccountID)
	assert.Equal(t, domain.AccountActive, got[0].Status)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, "pro", got[0].Profile["plan"])

	pending, err := client.XPending(context.Background(), "identity.user.v1", "quillcheck").Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count, "delivered entry must be acknowledged")
}

func TestConsumerDeadLettersMalformed(t *testing.T) {
	_, client := setupRedis(t)

	addIdentityEntry(t, client, map[string]any{
		"event_id":   "evt-bad",
		"account_id": "7",
		"status":     "active",
		"seq":        "not-a-number",
	})

	handler := func(context.Context, domain.IdentityEvent) error {
		t.Error("handler must not run for malformed entries")
		return nil
	}

	dlqLen := func() bool {
		n, err := client.XLen(context.Background(), "identity.user.v1.dlq").Result()
		return err == nil && n == 1
	}

	consumer := NewConsumer(discardLogger(), client, testConsumerConfig(), handler)
	runConsumer(t, consumer, dlqLen)

	entries, err := client.XRange(context.Background(), "identity.user.v1.dlq", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "evt-bad", entries[0].Values["event_id"])
	assert.NotEmpty(t, entries[0].Values["error"])

	pending, err := client.XPending(context.Background(), "identity.user.v1", "quillcheck").Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count, "dead lettered entry must be acknowledged")
}

func TestConsumerLeavesFailedEntriesPending(t *testing.T) {
	_, client := setupRedis(t)

	addIdentityEntry(t, client, map[string]any{
		"event_id":   "evt-1",
		"account_id": "7",
		"status":     "active",
		"seq":        "1",
	})

	calls := 0
	handler := func(context.Context, domain.IdentityEvent) error {
		calls++
		return assert.AnError
	}

	consumer := NewConsumer(discardLogger(), client, testConsumerConfig(), handler)
	runConsumer(t, consumer, func() bool { return calls >= 1 })

	pending, err := client.XPending(context.Background(), "identity.user.v1", "quillcheck").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count, "failed entry must stay pending for redelivery")
}

func TestConsumerDrainMovesPastFailingEntries(t *testing.T) {
	_, client := setupRedis(t)
	cfg := testConsumerConfig()
	ctx := context.Background()

	addIdentityEntry(t, client, map[string]any{
		"event_id":   "evt-stuck",
		"account_id": "7",
		"status":     "active",
		"seq":        "1",
	})

	// Deliver the entry to this consumer without acking so a restart
	// finds it pending.
	require.NoError(t, client.XGroupCreateMkStream(ctx, cfg.Stream, cfg.Group, "0").Err())
	_, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    cfg.Group,
		Consumer: cfg.ConsumerName,
		Streams:  []string{cfg.Stream, ">"},
		Count:    10,
		Block:    -time.Millisecond,
	}).Result()
	require.NoError(t, err)

	addIdentityEntry(t, client, map[string]any{
		"event_id":   "evt-new",
		"account_id": "8",
		"status":     "active",
		"seq":        "1",
	})

	var seen []string
	handler := func(_ context.Context, event domain.IdentityEvent) error {
		seen = append(seen, event.EventID)
		if event.EventID == "evt-stuck" {
			return assert.AnError
		}
		return nil
	}

	has := func(id string) bool {
		for _, s := range seen {
			if s == id {
				return true
			}
		}
		return false
	}

	consumer := NewConsumer(discardLogger(), client, cfg, handler)
	runConsumer(t, consumer, func() bool { return has("evt-new") })

	// The failing entry was retried during the startup drain but did not
	// keep the consumer from reaching new entries.
	assert.True(t, has("evt-stuck"))

	pending, err := client.XPending(ctx, cfg.Stream, cfg.Group).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count, "failing entry stays pending")
}

func TestConsumerLastReadReportsLiveness(t *testing.T) {
	_, client := setupRedis(t)

	addIdentityEntry(t, client, map[string]any{
		"event_id":   "evt-1",
		"account_id": "7",
		"status":     "active",
		"seq":        "1",
	})

	handled := 0
	consumer := NewConsumer(discardLogger(), client, testConsumerConfig(),
		func(context.Context, domain.IdentityEvent) error { handled++; return nil })

	assert.True(t, consumer.LastRead().IsZero(), "no reads before Run")

	runConsumer(t, consumer, func() bool { return handled == 1 })

	assert.WithinDuration(t, time.Now(), consumer.LastRead(), time.Minute)
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

func TestDecodeIdentityEvent(t *testing.T) {
	msg := redis.XMessage{
		ID: "1-0",
		Values: map[string]any{
			"account_id": "7",
			"status":     "suspended",
			"seq":        "12",
		},
	}

	event, err := decodeIdentityEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, "1-0", event.EventID, "missing event_id falls back to entry id")
	assert.Equal(t, domain.AccountSuspended, event.Status)
	assert.Equal(t, int64(12), event.Seq)
}

func TestDecodeIdentityEventMissingSeq(t *testing.T) {
	msg := redis.XMessage{ID: "1-0", Values: map[string]any{"account_id": "7", "status": "active"}}

	_, err := decodeIdentityEvent(msg)
	require.Error(t, err)
}

package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillcheck/quillcheck-backend/internal/config"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// Manual mocks (moq-style with func fields)

type mockRepo struct {
	unpublished []*domain.OutboxRow
	marked      []uuid.UUID

	ClaimUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxRow, error)
	PurgePublishedFunc   func(ctx context.Context, olderThan time.Time) (int64, error)
}

func (m *mockRepo) ClaimUnpublished(ctx context.Context, limit int) ([]*domain.OutboxRow, error) {
	if m.ClaimUnpublishedFunc != nil {
		return m.ClaimUnpublishedFunc(ctx, limit)
	}
	if limit > len(m.unpublished) {
		limit = len(m.unpublished)
	}
	return m.unpublished[:limit], nil
}

func (m *mockRepo) MarkPublished(_ context.Context, ids []uuid.UUID, _ time.Time) error {
	m.marked = append(m.marked, ids...)
	remaining := m.unpublished[:0]
	for _, row := range m.unpublished {
		keep := true
		for _, id := range ids {
			if row.ID == id {
				keep = false
				break
			}
		}
		if keep {
			remaining = append(remaining, row)
		}
	}
	m.unpublished = remaining
	return nil
}

func (m *mockRepo) PurgePublished(ctx context.Context, olderThan time.Time) (int64, error) {
	if m.PurgePublishedFunc != nil {
		return m.PurgePublishedFunc(ctx, olderThan)
	}
	return 0, nil
}

type mockPublisher struct {
	published []*domain.OutboxRow
	failAfter int // publish this many rows, then fail; -1 never fails
}

func (m *mockPublisher) Publish(_ context.Context, row *domain.OutboxRow) (string, error) {
	if m.failAfter >= 0 && len(m.published) >= m.failAfter {
		return "", errors.New("stream unavailable")
	}
	m.published = append(m.published, row)
	return "1-0", nil
}

type mockTxManager struct {
	rollbacks int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		m.rollbacks++
		return err
	}
	return nil
}

func newRow(eventType string) *domain.OutboxRow {
	return &domain.OutboxRow{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: domain.AggregateDictionary,
		AggregateID:   "acc=7",
		Payload:       []byte(`{}`),
		CreatedAt:     time.Now().UTC(),
	}
}

func newRelay(repo *mockRepo, pub *mockPublisher, tx *mockTxManager) *Relay {
	return NewRelay(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		repo, pub, tx,
		config.OutboxConfig{PollInterval: time.Second, BatchSize: 10, Retention: 24 * time.Hour},
	)
}

func TestRelayOncePublishesAndMarks(t *testing.T) {
	rows := []*domain.OutboxRow{newRow(domain.EventDictUpdated), newRow(domain.EventDictUpdated)}
	repo := &mockRepo{unpublished: append([]*domain.OutboxRow{}, rows...)}
	pub := &mockPublisher{failAfter: -1}
	relay := newRelay(repo, pub, &mockTxManager{})

	count, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, pub.published, 2)
	assert.ElementsMatch(t, []uuid.UUID{rows[0].ID, rows[1].ID}, repo.marked)
	assert.Equal(t, int64(2), relay.Published())
}

func TestRelayOnceEmptyOutbox(t *testing.T) {
	repo := &mockRepo{}
	pub := &mockPublisher{failAfter: -1}
	relay := newRelay(repo, pub, &mockTxManager{})

	count, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, repo.marked)
}

func TestRelayOncePublishFailureRollsBack(t *testing.T) {
	rows := []*domain.OutboxRow{newRow(domain.EventDictUpdated), newRow(domain.EventDictUpdated)}
	repo := &mockRepo{unpublished: append([]*domain.OutboxRow{}, rows...)}
	pub := &mockPublisher{failAfter: 1}
	tx := &mockTxManager{}
	relay := newRelay(repo, pub, tx)

	_, err := relay.RelayOnce(context.Background())
	require.Error(t, err)

	// The batch aborts: nothing marked even though one row reached the
	// stream. Redelivery of that row is expected; consumers dedupe.
	assert.Empty(t, repo.marked)
	assert.Equal(t, 1, tx.rollbacks)
	assert.Len(t, repo.unpublished, 2, "rows stay claimed-then-released for the next tick")
	assert.Zero(t, relay.Published())
}

func TestRelayOnceRespectsBatchSize(t *testing.T) {
	repo := &mockRepo{}
	for i := 0; i < 25; i++ {
		repo.unpublished = append(repo.unpublished, newRow(domain.EventDictUpdated))
	}
	pub := &mockPublisher{failAfter: -1}
	relay := newRelay(repo, pub, &mockTxManager{})

	count, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, count)
	assert.Len(t, repo.unpublished, 15)
}

func TestRelayLastTickAdvancesPerTick(t *testing.T) {
	repo := &mockRepo{unpublished: []*domain.OutboxRow{newRow(domain.EventDictUpdated)}}
	pub := &mockPublisher{failAfter: -1}
	relay := newRelay(repo, pub, &mockTxManager{})

	assert.True(t, relay.LastTick().IsZero(), "no tick before the first RelayOnce")

	_, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	first := relay.LastTick()
	assert.WithinDuration(t, time.Now(), first, time.Minute)

	// Empty ticks still count as liveness.
	_, err = relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, relay.LastTick().Before(first))
}

func TestRelayLastTickUnchangedOnFailure(t *testing.T) {
	repo := &mockRepo{unpublished: []*domain.OutboxRow{newRow(domain.EventDictUpdated)}}
	pub := &mockPublisher{failAfter: 0}
	relay := newRelay(repo, pub, &mockTxManager{})

	_, err := relay.RelayOnce(context.Background())
	require.Error(t, err)
	assert.True(t, relay.LastTick().IsZero(), "failed tick must not report liveness")
}

func TestPurgeUsesRetentionCutoff(t *testing.T) {
	var gotCutoff time.Time
	repo := &mockRepo{
		PurgePublishedFunc: func(_ context.Context, olderThan time.Time) (int64, error) {
			gotCutoff = olderThan
			return 3, nil
		},
	}
	relay := newRelay(repo, &mockPublisher{failAfter: -1}, &mockTxManager{})

	require.NoError(t, relay.purge(context.Background()))

	wantCutoff := time.Now().UTC().Add(-24 * time.Hour)
	assert.WithinDuration(t, wantCutoff, gotCutoff, time.Minute)
}

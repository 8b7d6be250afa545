package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// Manual mocks (moq-style with func fields)

type mockProjectionRepo struct {
	rows map[string]*domain.IdentityProjectionRow

	GetFunc    func(ctx context.Context, accountID string) (*domain.IdentityProjectionRow, error)
	UpsertFunc func(ctx context.Context, row *domain.IdentityProjectionRow) error
}

func newMockProjectionRepo() *mockProjectionRepo {
	return &mockProjectionRepo{rows: make(map[string]*domain.IdentityProjectionRow)}
}

func (m *mockProjectionRepo) Get(ctx context.Context, accountID string) (*domain.IdentityProjectionRow, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, accountID)
	}
	row, ok := m.rows[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return row, nil
}

func (m *mockProjectionRepo) Upsert(ctx context.Context, row *domain.IdentityProjectionRow) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, row)
	}
	m.rows[row.AccountID] = row
	return nil
}

type mockReconciler struct {
	calls []string
	err   error
}

func (m *mockReconciler) ReconcileAccount(_ context.Context, accountID string) error {
	m.calls = append(m.calls, accountID)
	return m.err
}

type mockTxManager struct{}

func (mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(proj *mockProjectionRepo, rec *mockReconciler) *Service {
	return NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		proj, rec, mockTxManager{},
	)
}

func TestApplyEventUpsertsProjection(t *testing.T) {
	proj := newMockProjectionRepo()
	rec := &mockReconciler{}
	svc := newTestService(proj, rec)

	err := svc.ApplyEvent(context.Background(), domain.IdentityEvent{
		EventID:   "evt-1",
		AccountID: "7",
		Status:    domain.AccountActive,
		Profile:   map[string]any{"plan": "pro"},
		Seq:       1,
	})
	require.NoError(t, err)

	row := proj.rows["7"]
	require.NotNil(t, row)
	assert.Equal(t, domain.AccountActive, row.Status)
	assert.Equal(t, int64(1), row.LastEventSeq)
	assert.Equal(t, "pro", row.Profile["plan"])
}

func TestApplyEventIdempotentReplay(t *testing.T) {
	proj := newMockProjectionRepo()
	rec := &mockReconciler{}
	svc := newTestService(proj, rec)
	ctx := context.Background()

	require.NoError(t, svc.ApplyEvent(ctx, domain.IdentityEvent{
		EventID: "evt-1", AccountID: "7", Status: domain.AccountActive, Seq: 3,
	}))
	require.NoError(t, svc.ApplyEvent(ctx, domain.IdentityEvent{
		EventID: "evt-2", AccountID: "7", Status: domain.AccountSuspended, Seq: 4,
	}))

	// Redelivery of an already applied event must not regress the row.
	require.NoError(t, svc.ApplyEvent(ctx, domain.IdentityEvent{
		EventID: "evt-1", AccountID: "7", Status: domain.AccountActive, Seq: 3,
	}))

	row := proj.rows["7"]
	assert.Equal(t, domain.AccountSuspended, row.Status)
	assert.Equal(t, int64(4), row.LastEventSeq)
}

func TestApplyEventFirstEventTriggersReconcile(t *testing.T) {
	proj := newMockProjectionRepo()
	rec := &mockReconciler{}
	svc := newTestService(proj, rec)
	ctx := context.Background()

	require.NoError(t, svc.ApplyEvent(ctx, domain.IdentityEvent{
		EventID: "evt-1", AccountID: "7", Status: domain.AccountActive, Seq: 1,
	}))
	assert.Equal(t, []string{"7"}, rec.calls)

	// A later non-deleted event must not trigger again.
	require.NoError(t, svc.ApplyEvent(ctx, domain.IdentityEvent{
		EventID: "evt-2", AccountID: "7", Status: domain.AccountActive, Seq: 2,
	}))
	assert.Equal(t, []string{"7"}, rec.calls)
}

func TestApplyEventDeletedTriggersReconcile(t *testing.T) {
	proj := newMockProjectionRepo()
	rec := &mockReconciler{}
	svc := newTestService(proj, rec)
	ctx := context.Background()

	require.NoError(t, svc.ApplyEvent(ctx, domain.IdentityEvent{
		EventID: "evt-1", AccountID: "7", Status: domain.AccountActive, Seq: 1,
	}))
	require.NoError(t, svc.ApplyEvent(ctx, domain.IdentityEvent{
		EventID: "evt-2", AccountID: "7", Status: domain.AccountDeleted, Seq: 2,
	}))

	assert.Equal(t, []string{"7", "7"}, rec.calls)
}

func TestApplyEventReconcileFailureDoesNotFailApply(t *testing.T) {
	proj := newMockProjectionRepo()
	rec := &mockReconciler{err: errors.New("reconcile down")}
	svc := newTestService(proj, rec)

	err := svc.ApplyEvent(context.Background(), domain.IdentityEvent{
		EventID: "evt-1", AccountID: "7", Status: domain.AccountActive, Seq: 1,
	})
	require.NoError(t, err)
	assert.NotNil(t, proj.rows["7"])
}

func TestApplyEventRejectsMalformed(t *testing.T) {
	svc := newTestService(newMockProjectionRepo(), &mockReconciler{})
	ctx := context.Background()

	err := svc.ApplyEvent(ctx, domain.IdentityEvent{EventID: "e", Status: domain.AccountActive, Seq: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.ApplyEvent(ctx, domain.IdentityEvent{EventID: "e", AccountID: "7", Status: "gone", Seq: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.ApplyEvent(ctx, domain.IdentityEvent{EventID: "e", AccountID: "7", Status: domain.AccountActive})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Package identity maintains the local account read model from identity
// events delivered over the stream transport. Applying is idempotent: each
// account carries a monotonically increasing sequence and events at or below
// the last applied sequence are discarded.
package identity

import (
	"context"
	"log/slog"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

type projectionRepo interface {
	Get(ctx context.Context, accountID string) (*domain.IdentityProjectionRow, error)
	Upsert(ctx context.Context, row *domain.IdentityProjectionRow) error
}

type reconciler interface {
	ReconcileAccount(ctx context.Context, accountID string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service applies identity events to the projection.
type Service struct {
	log        *slog.Logger
	projection projectionRepo
	reconciler reconciler
	tx         txManager
}

// NewService creates a new Identity service.
func NewService(
	logger *slog.Logger,
	projection projectionRepo,
	reconciler reconciler,
	tx txManager,
) *Service {
	return &Service{
		log:        logger.With("service", "identity"),
		projection: projection,
		reconciler: reconciler,
		tx:         tx,
	}
}

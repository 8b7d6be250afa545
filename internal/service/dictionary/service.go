// Package dictionary implements the per-scope custom dictionary business
// logic. Every mutation records an outbox row in the same transaction as
// the change, so downstream consumers learn about it without a synchronous
// call into this service.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quillcheck/quillcheck-backend/internal/config"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	Insert(ctx context.Context, word *domain.DictionaryWord) error
	Delete(ctx context.Context, scopeKey, word string) error
	ListByScope(ctx context.Context, scopeKey string) ([]string, error)
	Search(ctx context.Context, scopeKey, term string) ([]string, error)
	CountByScope(ctx context.Context, scopeKey string) (int, error)
	PurgeByPrefix(ctx context.Context, prefix string) (int64, error)
}

type outboxRepo interface {
	Insert(ctx context.Context, row *domain.OutboxRow) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type projectionReader interface {
	Get(ctx context.Context, accountID string) (*domain.IdentityProjectionRow, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the dictionary business logic.
type Service struct {
	log        *slog.Logger
	words      wordRepo
	outbox     outboxRepo
	tx         txManager
	projection projectionReader
	cfg        config.DictionaryConfig
}

// NewService creates a new Dictionary service.
func NewService(
	logger *slog.Logger,
	words wordRepo,
	outbox outboxRepo,
	tx txManager,
	projection projectionReader,
	cfg config.DictionaryConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "dictionary"),
		words:      words,
		outbox:     outbox,
		tx:         tx,
		projection: projection,
		cfg:        cfg,
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newOutboxRow builds the outbox row recorded alongside a dictionary change.
func newOutboxRow(eventType string, delta domain.DictDelta) (*domain.OutboxRow, error) {
	payload, err := json.Marshal(delta)
	if err != nil {
		return nil, fmt.Errorf("marshal outbox payload: %w", err)
	}
	return &domain.OutboxRow{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: domain.AggregateDictionary,
		AggregateID:   delta.ScopeKey,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

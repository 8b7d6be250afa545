// Package outbox implements the transactional outbox table. Rows are written
// in the same transaction as the state change they describe and published
// later by the relay, which claims unpublished rows with SKIP LOCKED so
// multiple relay instances never double-publish.
package outbox

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/quillcheck/quillcheck-backend/internal/adapter/postgres"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides outbox persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new outbox repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// rowModel is the scan target for outbox rows.
type rowModel struct {
	ID            uuid.UUID  `db:"id"`
	EventType     string     `db:"event_type"`
	AggregateType string     `db:"aggregate_type"`
	AggregateID   string     `db:"aggregate_id"`
	Payload       []byte     `db:"payload"`
	CreatedAt     time.Time  `db:"created_at"`
	PublishedAt   *time.Time `db:"published_at"`
}

// Insert appends a new outbox row. Must run inside the same transaction as
// the state change it describes.
func (r *Repo) Insert(ctx context.Context, row *domain.OutboxRow) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Insert("outbox").
		Columns("id", "event_type", "aggregate_type", "aggregate_id", "payload", "created_at").
		Values(row.ID, row.EventType, row.AggregateType, row.AggregateID, row.Payload, row.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "outbox", row.ID.String())
	}
	return nil
}

// ClaimUnpublished locks and returns up to limit unpublished rows in
// creation order. Rows locked by a concurrent relay are skipped. Must run
// inside a transaction so the row locks live until commit.
func (r *Repo) ClaimUnpublished(ctx context.Context, limit int) ([]*domain.OutboxRow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Select("id", "event_type", "aggregate_type", "aggregate_id", "payload", "created_at", "published_at").
		From("outbox").
		Where(sq.Eq{"published_at": nil}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build claim: %w", err)
	}

	var models []rowModel
	if err := pgxscan.Select(ctx, q, &models, query, args...); err != nil {
		return nil, postgres.MapError(err, "outbox", "claim")
	}

	rows := make([]*domain.OutboxRow, 0, len(models))
	for _, m := range models {
		rows = append(rows, &domain.OutboxRow{
			ID:            m.ID,
			EventType:     m.EventType,
			AggregateType: m.AggregateType,
			AggregateID:   m.AggregateID,
			Payload:       m.Payload,
			CreatedAt:     m.CreatedAt,
			PublishedAt:   m.PublishedAt,
		})
	}
	return rows, nil
}

// MarkPublished stamps rows as published. Order of ids does not matter.
func (r *Repo) MarkPublished(ctx context.Context, ids []uuid.UUID, publishedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Update("outbox").
		Set("published_at", publishedAt).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "outbox", "mark")
	}
	return nil
}

// PurgePublished deletes published rows older than the cutoff. Returns the
// number of rows removed.
func (r *Repo) PurgePublished(ctx context.Context, olderThan time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Delete("outbox").
		Where(sq.NotEq{"published_at": nil}).
		Where(sq.Lt{"published_at": olderThan}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "outbox", "purge")
	}
	return tag.RowsAffected(), nil
}

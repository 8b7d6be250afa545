// Package projection implements the identity projection repository using
// PostgreSQL. One row per account, upserted only by the event consumer.
package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/quillcheck/quillcheck-backend/internal/adapter/postgres"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides identity projection persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new identity projection repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type rowModel struct {
	AccountID    string    `db:"account_id"`
	Status       string    `db:"status"`
	Profile      []byte    `db:"profile"`
	LastEventSeq int64     `db:"last_event_seq"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Get returns the projection row for an account. Returns domain.ErrNotFound
// when no event for the account has been applied yet.
func (r *Repo) Get(ctx context.Context, accountID string) (*domain.IdentityProjectionRow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Select("account_id", "status", "profile", "last_event_seq", "updated_at").
		From("identity_projection").
		Where(sq.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var m rowModel
	if err := pgxscan.Get(ctx, q, &m, query, args...); err != nil {
		return nil, postgres.MapError(err, "identity_projection", accountID)
	}

	row := &domain.IdentityProjectionRow{
		AccountID:    m.AccountID,
		Status:       domain.AccountStatus(m.Status),
		LastEventSeq: m.LastEventSeq,
		UpdatedAt:    m.UpdatedAt,
	}
	if len(m.Profile) > 0 {
		if err := json.Unmarshal(m.Profile, &row.Profile); err != nil {
			return nil, fmt.Errorf("identity_projection %s: decode profile: %w", accountID, err)
		}
	}
	return row, nil
}

// Upsert writes the projection row, replacing any prior state for the
// account.
func (r *Repo) Upsert(ctx context.Context, row *domain.IdentityProjectionRow) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var profile []byte
	if row.Profile != nil {
		var err error
		profile, err = json.Marshal(row.Profile)
		if err != nil {
			return fmt.Errorf("identity_projection %s: encode profile: %w", row.AccountID, err)
		}
	}

	query, args, err := builder.
		Insert("identity_projection").
		Columns("account_id", "status", "profile", "last_event_seq", "updated_at").
		Values(row.AccountID, string(row.Status), profile, row.LastEventSeq, row.UpdatedAt).
		Suffix(`ON CONFLICT (account_id) DO UPDATE SET
			status = EXCLUDED.status,
			profile = EXCLUDED.profile,
			last_event_seq = EXCLUDED.last_event_seq,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "identity_projection", row.AccountID)
	}
	return nil
}

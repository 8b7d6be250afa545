// Package dictionary implements the custom dictionary word repository
// using PostgreSQL. Words are stored flat, keyed by the scope key string;
// scope chain resolution is the service's concern.
package dictionary

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/quillcheck/quillcheck-backend/internal/adapter/postgres"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides dictionary word persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new dictionary word repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Insert adds a word to a scope. Returns domain.ErrAlreadyExists when the
// scope already holds the word.
func (r *Repo) Insert(ctx context.Context, word *domain.DictionaryWord) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Insert("dictionary_words").
		Columns("id", "scope_key", "word", "notes", "created_at").
		Values(word.ID, word.ScopeKey, word.Word, word.Notes, word.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "dictionary_word", word.ScopeKey)
	}
	return nil
}

// Delete removes a word from a scope. Returns domain.ErrNotFound when the
// scope does not hold the word.
func (r *Repo) Delete(ctx context.Context, scopeKey, word string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Delete("dictionary_words").
		Where(sq.Eq{"scope_key": scopeKey, "word": word}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "dictionary_word", scopeKey)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dictionary_word %s/%s: %w", scopeKey, word, domain.ErrNotFound)
	}
	return nil
}

// ListByScope returns the words of exactly one scope, ordered.
func (r *Repo) ListByScope(ctx context.Context, scopeKey string) ([]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Select("word").
		From("dictionary_words").
		Where(sq.Eq{"scope_key": scopeKey}).
		OrderBy("word ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var words []string
	if err := pgxscan.Select(ctx, q, &words, query, args...); err != nil {
		return nil, postgres.MapError(err, "dictionary_word", scopeKey)
	}
	return words, nil
}

// Search returns the scope's words containing term as a substring.
func (r *Repo) Search(ctx context.Context, scopeKey, term string) ([]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Select("word").
		From("dictionary_words").
		Where(sq.Eq{"scope_key": scopeKey}).
		Where(sq.Like{"word": "%" + escapeLike(term) + "%"}).
		OrderBy("word ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}

	var words []string
	if err := pgxscan.Select(ctx, q, &words, query, args...); err != nil {
		return nil, postgres.MapError(err, "dictionary_word", scopeKey)
	}
	return words, nil
}

// CountByScope returns the number of words in exactly one scope.
func (r *Repo) CountByScope(ctx context.Context, scopeKey string) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Select("COUNT(*)").
		From("dictionary_words").
		Where(sq.Eq{"scope_key": scopeKey}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "dictionary_word", scopeKey)
	}
	return count, nil
}

// PurgeByPrefix removes every word whose scope key starts with prefix.
// Used when reconciling deleted accounts; idempotent.
func (r *Repo) PurgeByPrefix(ctx context.Context, prefix string) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Delete("dictionary_words").
		Where(sq.Like{"scope_key": escapeLike(prefix) + "%"}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "dictionary_word", prefix)
	}
	return tag.RowsAffected(), nil
}

// escapeLike escapes LIKE metacharacters in user-supplied fragments.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

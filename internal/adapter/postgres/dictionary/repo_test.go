package dictionary_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/quillcheck/quillcheck-backend/internal/adapter/postgres/dictionary"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRepo_Insert(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := dictionary.New(mock)

	word := &domain.DictionaryWord{
		ID:        uuid.New(),
		ScopeKey:  "acc=7",
		Word:      "acme",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO dictionary_words").
		WithArgs(word.ID, word.ScopeKey, word.Word, word.Notes, word.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Insert(context.Background(), word); err != nil {
		t.Fatalf("Insert: unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Insert_Duplicate(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := dictionary.New(mock)

	word := &domain.DictionaryWord{ID: uuid.New(), ScopeKey: "acc=7", Word: "acme"}

	mock.ExpectExec("INSERT INTO dictionary_words").
		WithArgs(word.ID, word.ScopeKey, word.Word, word.Notes, word.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})

	err := repo.Insert(context.Background(), word)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Insert duplicate: got %v, want domain.ErrAlreadyExists", err)
	}
}

func TestRepo_Delete_NotFound(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := dictionary.New(mock)

	mock.ExpectExec("DELETE FROM dictionary_words").
		WithArgs("acc=7", "ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "acc=7", "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete missing word: got %v, want domain.ErrNotFound", err)
	}
}

func TestRepo_ListByScope(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := dictionary.New(mock)

	mock.ExpectQuery("SELECT word FROM dictionary_words").
		WithArgs("acc=7").
		WillReturnRows(pgxmock.NewRows([]string{"word"}).AddRow("acme").AddRow("quillcheck"))

	words, err := repo.ListByScope(context.Background(), "acc=7")
	if err != nil {
		t.Fatalf("ListByScope: unexpected error: %v", err)
	}
	if len(words) != 2 || words[0] != "acme" || words[1] != "quillcheck" {
		t.Errorf("ListByScope = %v, want [acme quillcheck]", words)
	}
}

func TestRepo_CountByScope(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := dictionary.New(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM dictionary_words`).
		WithArgs("acc=7").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountByScope(context.Background(), "acc=7")
	if err != nil {
		t.Fatalf("CountByScope: unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("CountByScope = %d, want 42", count)
	}
}

func TestRepo_PurgeByPrefix(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := dictionary.New(mock)

	mock.ExpectExec("DELETE FROM dictionary_words").
		WithArgs(`acc=7%`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	purged, err := repo.PurgeByPrefix(context.Background(), "acc=7")
	if err != nil {
		t.Fatalf("PurgeByPrefix: unexpected error: %v", err)
	}
	if purged != 3 {
		t.Errorf("PurgeByPrefix = %d, want 3", purged)
	}
}

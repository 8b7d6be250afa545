package dictionary

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// AddWord adds a word to the given scope and returns the scope's resulting
// word count. The dictionary insert and its outbox row are committed in one
// transaction: both succeed or neither does.
func (s *Service) AddWord(ctx context.Context, input AddWordInput) (int, error) {
	if err := input.Scope.Validate(); err != nil {
		return 0, err
	}
	if err := validateWord(input.Word, s.cfg.MaxWordLen); err != nil {
		return 0, err
	}

	scopeKey := input.Scope.Key()
	folded := domain.FoldWord(input.Word)

	count, err := s.words.CountByScope(ctx, scopeKey)
	if err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	if count >= s.cfg.MaxWordsPerScope {
		return 0, domain.NewValidationError("word", "scope word limit reached")
	}

	var resulting int
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		word := &domain.DictionaryWord{
			ID:        uuid.New(),
			ScopeKey:  scopeKey,
			Word:      folded,
			Notes:     input.Notes,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.words.Insert(txCtx, word); err != nil {
			return fmt.Errorf("insert word: %w", err)
		}

		resulting, err = s.words.CountByScope(txCtx, scopeKey)
		if err != nil {
			return fmt.Errorf("count words: %w", err)
		}

		row, err := newOutboxRow(domain.EventDictUpdated, domain.DictDelta{
			ScopeKey:  scopeKey,
			Added:     []string{folded},
			WordCount: resulting,
		})
		if err != nil {
			return err
		}
		if err := s.outbox.Insert(txCtx, row); err != nil {
			return fmt.Errorf("insert outbox row: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return 0, txErr
	}

	s.log.Info("word added",
		"scope", scopeKey,
		"word", folded,
		"count", resulting)
	return resulting, nil
}

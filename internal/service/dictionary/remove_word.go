package dictionary

import (
	"context"
	"fmt"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// RemoveWord deletes a word from the given scope and returns the scope's
// resulting word count. Returns domain.ErrNotFound when the word is not in
// the scope. Delete and outbox row share one transaction.
func (s *Service) RemoveWord(ctx context.Context, input RemoveWordInput) (int, error) {
	if err := input.Scope.Validate(); err != nil {
		return 0, err
	}
	folded := domain.FoldWord(input.Word)
	if folded == "" {
		return 0, domain.NewValidationError("word", "required")
	}

	scopeKey := input.Scope.Key()

	var resulting int
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.words.Delete(txCtx, scopeKey, folded); err != nil {
			return fmt.Errorf("delete word: %w", err)
		}

		var err error
		resulting, err = s.words.CountByScope(txCtx, scopeKey)
		if err != nil {
			return fmt.Errorf("count words: %w", err)
		}

		row, err := newOutboxRow(domain.EventDictUpdated, domain.DictDelta{
			ScopeKey:  scopeKey,
			Removed:   []string{folded},
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

	s.log.Info("word removed",
		"scope", scopeKey,
		"word", folded,
		"count", resulting)
	return resulting, nil
}

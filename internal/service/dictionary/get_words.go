package dictionary

import (
	"context"
	"fmt"
	"sort"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// GetWords returns the words stored for exactly this scope. Narrower and
// wider scopes of the same account are not included; use WordsForAnalysis
// for applicability resolution.
func (s *Service) GetWords(ctx context.Context, scope domain.Scope) ([]string, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	words, err := s.words.ListByScope(ctx, scope.Key())
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}

// Search returns the scope's words matching a term (substring,
// case-insensitive).
func (s *Service) Search(ctx context.Context, scope domain.Scope, term string) ([]string, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	folded := domain.FoldWord(term)
	if folded == "" {
		return nil, domain.NewValidationError("term", "required")
	}
	words, err := s.words.Search(ctx, scope.Key(), folded)
	if err != nil {
		return nil, fmt.Errorf("search words: %w", err)
	}
	return words, nil
}

// WordsForAnalysis resolves the words applicable to an analysis request:
// the union of the scope chain (folder, then category, then account level),
// gated by the identity projection. Accounts the projection marks deleted
// contribute nothing; accounts not seen yet are honored until identity
// state says otherwise.
func (s *Service) WordsForAnalysis(ctx context.Context, scope domain.Scope) ([]string, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	row, err := s.projection.Get(ctx, scope.AccountID)
	switch {
	case err == nil:
		if !row.WordsUsable() {
			s.log.Debug("scope words withheld by identity state",
				"account", scope.AccountID,
				"status", string(row.Status))
			return nil, nil
		}
	case isNotFound(err):
		// No identity state yet; honor the words.
	default:
		return nil, fmt.Errorf("projection lookup: %w", err)
	}

	seen := make(map[string]struct{})
	var union []string
	for _, sc := range scope.Chain() {
		words, err := s.words.ListByScope(ctx, sc.Key())
		if err != nil {
			return nil, fmt.Errorf("list words for %s: %w", sc.Key(), err)
		}
		for _, w := range words {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			union = append(union, w)
		}
	}
	sort.Strings(union)
	return union, nil
}

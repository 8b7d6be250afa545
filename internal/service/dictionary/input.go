package dictionary

import (
	"strings"
	"unicode"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// AddWordInput is the request shape for AddWord.
type AddWordInput struct {
	Scope domain.Scope
	Word  string
	Notes *string
}

// RemoveWordInput is the request shape for RemoveWord.
type RemoveWordInput struct {
	Scope domain.Scope
	Word  string
}

// validateWord checks a dictionary word candidate. Words are single tokens:
// letters plus optional apostrophes and hyphens, bounded in length.
func validateWord(word string, maxLen int) error {
	folded := domain.FoldWord(word)
	if folded == "" {
		return domain.NewValidationError("word", "required")
	}
	if maxLen > 0 && len(folded) > maxLen {
		return domain.NewValidationError("word", "too long")
	}
	hasLetter := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == '\'' || r == '-' || unicode.IsDigit(r):
		default:
			return domain.NewValidationError("word", "must not contain whitespace or punctuation")
		}
	}
	if !hasLetter {
		return domain.NewValidationError("word", "must contain a letter")
	}
	if strings.ContainsAny(folded, " \t\n") {
		return domain.NewValidationError("word", "must be a single token")
	}
	return nil
}

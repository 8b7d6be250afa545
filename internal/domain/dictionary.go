package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scope is the applicability boundary of a custom dictionary word.
// AccountID is required; CategoryID and FolderPath narrow the scope further.
type Scope struct {
	AccountID  string
	CategoryID string
	FolderPath string
}

// Key returns the canonical composite key stored with each word.
// The account segment always comes first so all scopes of one account share
// a common prefix.
func (s Scope) Key() string {
	var b strings.Builder
	b.WriteString("acc=")
	b.WriteString(s.AccountID)
	if s.CategoryID != "" {
		b.WriteString(";cat=")
		b.WriteString(s.CategoryID)
	}
	if s.FolderPath != "" {
		b.WriteString(";dir=")
		b.WriteString(s.FolderPath)
	}
	return b.String()
}

// AccountPrefix returns the key prefix shared by every scope of the account.
func (s Scope) AccountPrefix() string {
	return fmt.Sprintf("acc=%s", s.AccountID)
}

// Chain returns the scopes to consult when checking word applicability,
// most specific first: folder, then category, then account level.
func (s Scope) Chain() []Scope {
	chain := make([]Scope, 0, 3)
	if s.FolderPath != "" {
		chain = append(chain, s)
	}
	if s.CategoryID != "" {
		chain = append(chain, Scope{AccountID: s.AccountID, CategoryID: s.CategoryID})
	}
	chain = append(chain, Scope{AccountID: s.AccountID})
	return chain
}

// Validate checks structural validity of the scope.
func (s Scope) Validate() error {
	if strings.TrimSpace(s.AccountID) == "" {
		return NewValidationError("scope.accountId", "required")
	}
	if strings.ContainsAny(s.AccountID+s.CategoryID+s.FolderPath, ";=") {
		return NewValidationError("scope", "must not contain ';' or '='")
	}
	return nil
}

// DictionaryWord is one custom dictionary entry. Word is stored case-folded
// and is unique within its scope key.
type DictionaryWord struct {
	ID        uuid.UUID
	ScopeKey  string
	Word      string
	Notes     *string
	CreatedAt time.Time
}

// FoldWord normalizes a word for storage and comparison: trims surrounding
// whitespace and lowercases. Hyphens and apostrophes are preserved.
func FoldWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

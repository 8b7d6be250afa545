// Package engine runs spelling detection over extracted span text. Two
// checker implementations exist: a wordlist-backed primary and a curated
// fallback. The choice is made once at startup by capability check, not
// per call.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// Result is one flagged token. Offset is relative to the start of the text
// the checker was given.
type Result struct {
	Token       string
	Offset      int
	Suggestions []string
}

// Checker detects misspellings in a piece of span text.
type Checker interface {
	// Check scans text and returns flagged tokens. customWords are
	// case-folded caller-supplied words that must never be flagged.
	Check(ctx context.Context, text string, customWords []string) []Result

	// Name identifies the implementation for logs and health reporting.
	Name() string
}

// Config controls engine construction.
type Config struct {
	// WordlistPath is the full dictionary file consulted by the primary
	// checker, one word per line.
	WordlistPath string

	// MinTokenLen is the shortest token worth checking; shorter tokens are
	// skipped outright.
	MinTokenLen int
}

// Select returns the primary wordlist checker when its backing file is
// available, otherwise the fallback. This is the single place strategy
// dispatch happens.
func Select(log *slog.Logger, cfg Config) Checker {
	if cfg.MinTokenLen <= 0 {
		cfg.MinTokenLen = 3
	}

	primary, err := NewWordlistChecker(cfg.WordlistPath, cfg.MinTokenLen)
	if err != nil {
		log.Warn("wordlist unavailable, using fallback checker",
			slog.String("path", cfg.WordlistPath),
			slog.String("error", err.Error()))
		return NewFallbackChecker(cfg.MinTokenLen)
	}

	log.Info("wordlist checker selected",
		slog.String("path", cfg.WordlistPath),
		slog.Int("words", primary.Size()))
	return primary
}

// skippable reports whether a token should be ignored before any dictionary
// lookup: too short, purely numeric, built-in technical vocabulary, or in
// the caller's custom word list.
func skippable(token string, minLen int, custom wordSet) bool {
	if len(token) < minLen {
		return true
	}
	if isNumeric(token) {
		return true
	}
	folded := strings.ToLower(token)
	if technicalTerms.Has(folded) {
		return true
	}
	if custom.Has(folded) {
		return true
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func foldCustom(words []string) wordSet {
	set := make(wordSet, len(words))
	for _, w := range words {
		set.Add(strings.TrimSpace(w))
	}
	return set
}

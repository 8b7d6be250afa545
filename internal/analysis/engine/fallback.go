package engine

import (
	"context"
	"strings"
)

// FallbackChecker is the no-dependency path used when no full dictionary is
// available. It only flags tokens present in the curated misspelling table,
// so it can never produce unbounded false positives against ordinary
// vocabulary.
type FallbackChecker struct {
	minTokenLen int
}

// NewFallbackChecker creates the curated-table checker.
func NewFallbackChecker(minTokenLen int) *FallbackChecker {
	if minTokenLen <= 0 {
		minTokenLen = 3
	}
	return &FallbackChecker{minTokenLen: minTokenLen}
}

// Name implements Checker.
func (c *FallbackChecker) Name() string { return "fallback" }

// Check implements Checker.
func (c *FallbackChecker) Check(_ context.Context, text string, customWords []string) []Result {
	custom := foldCustom(customWords)

	var results []Result
	for _, tok := range Tokenize(text) {
		if skippable(tok.Text, c.minTokenLen, custom) {
			continue
		}
		if suggestions, ok := LookupMisspelling(strings.ToLower(tok.Text)); ok {
			results = append(results, Result{
				Token:       tok.Text,
				Offset:      tok.Offset,
				Suggestions: suggestions,
			})
		}
	}
	return results
}

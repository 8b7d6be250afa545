package engine

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 5

// WordlistChecker is the primary engine: tokens absent from a full backing
// dictionary are flagged. Suggestions come from the curated misspelling
// table when it knows the token, otherwise from nearby dictionary words
// ranked by edit distance.
type WordlistChecker struct {
	words       wordSet
	byFirst     map[byte][]string
	minTokenLen int
}

// NewWordlistChecker loads the dictionary file (one word per line).
func NewWordlistChecker(path string, minTokenLen int) (*WordlistChecker, error) {
	if path == "" {
		return nil, fmt.Errorf("wordlist path not configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	c := &WordlistChecker{
		words:       make(wordSet),
		byFirst:     make(map[byte][]string),
		minTokenLen: minTokenLen,
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.ContainsFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && r != '\'' }) {
			continue
		}
		if _, dup := c.words[w]; dup {
			continue
		}
		c.words[w] = struct{}{}
		c.byFirst[w[0]] = append(c.byFirst[w[0]], w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	if len(c.words) == 0 {
		return nil, fmt.Errorf("wordlist %s is empty", path)
	}
	return c, nil
}

// Name implements Checker.
func (c *WordlistChecker) Name() string { return "wordlist" }

// Size returns the number of dictionary words loaded.
func (c *WordlistChecker) Size() int { return len(c.words) }

// Check implements Checker.
func (c *WordlistChecker) Check(ctx context.Context, text string, customWords []string) []Result {
	custom := foldCustom(customWords)

	var results []Result
	for _, tok := range Tokenize(text) {
		if ctx.Err() != nil {
			return results
		}
		if skippable(tok.Text, c.minTokenLen, custom) {
			continue
		}
		// Capitalized tokens are likely proper nouns or type names; skipping
		// them keeps the false-positive rate down on identifier fragments.
		if unicode.IsUpper([]rune(tok.Text)[0]) {
			continue
		}
		folded := strings.ToLower(tok.Text)
		if c.words.Has(folded) {
			continue
		}
		if strings.Contains(folded, "'") && c.words.Has(strings.TrimSuffix(folded, "'s")) {
			continue
		}
		results = append(results, Result{
			Token:       tok.Text,
			Offset:      tok.Offset,
			Suggestions: c.suggest(folded),
		})
	}
	return results
}

// suggest ranks replacement candidates for a flagged token.
func (c *WordlistChecker) suggest(folded string) []string {
	if fixed, ok := LookupMisspelling(folded); ok {
		return fixed
	}

	type scored struct {
		word string
		dist int
	}
	var candidates []scored
	for _, w := range c.byFirst[folded[0]] {
		if abs(len(w)-len(folded)) > 2 {
			continue
		}
		d := levenshtein.ComputeDistance(folded, w)
		if d <= 2 {
			candidates = append(candidates, scored{word: w, dist: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, cand := range candidates {
		out[i] = cand.word
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

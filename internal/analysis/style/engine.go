// Package style applies named regex rule sets to full document text. It
// runs independently of the code-fence spell pipeline but reuses the fence
// locator so matches inside code blocks are never flagged.
package style

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/quillcheck/quillcheck-backend/internal/analysis/fence"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/mapper"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// Options filters which rule categories apply.
type Options struct {
	ExcludeCategories     []string
	IncludeCategoriesOnly []string
}

// Engine evaluates style rule sets.
type Engine struct {
	log *slog.Logger
}

// NewEngine creates a style engine.
func NewEngine(log *slog.Logger) *Engine {
	return &Engine{log: log.With("component", "style")}
}

// Analyze applies the named rule set to text and returns style findings.
// Matches inside fenced code regions are skipped; quote-sensitive rules also
// skip matches inside quoted or inline-code spans.
func (e *Engine) Analyze(text, ruleSetName string, opts Options) ([]domain.Finding, error) {
	rs, ok := LookupRuleSet(ruleSetName)
	if !ok {
		return nil, fmt.Errorf("rule set %q: %w", ruleSetName, domain.ErrNotFound)
	}

	fences := fence.Locate(text)
	lines := mapper.NewLineIndex(text)

	var findings []domain.Finding
	for _, rule := range rs.Rules {
		if !categoryEnabled(rule.Category, opts) {
			continue
		}
		for _, loc := range rule.Pattern.FindAllStringIndex(text, -1) {
			if insideFence(fences, loc[0]) {
				continue
			}
			if rule.QuoteSensitive && insideQuotedSpan(text, loc[0]) {
				continue
			}
			line, col := lines.Locate(loc[0])
			f := domain.Finding{
				Word:          text[loc[0]:loc[1]],
				AbsoluteStart: loc[0],
				AbsoluteEnd:   loc[1],
				LineNumber:    line,
				Column:        col,
				Severity:      rule.Severity,
				Type:          rule.Category,
				Message:       rule.Message,
				Confidence:    0.7,
				Source:        domain.SourceStyle,
			}
			if rule.Suggestion != "" {
				f.Suggestions = []string{rule.Suggestion}
			}
			findings = append(findings, f)
		}
	}
	return findings, nil
}

func categoryEnabled(category string, opts Options) bool {
	if len(opts.IncludeCategoriesOnly) > 0 {
		for _, c := range opts.IncludeCategoriesOnly {
			if c == category {
				return true
			}
		}
		return false
	}
	for _, c := range opts.ExcludeCategories {
		if c == category {
			return false
		}
	}
	return true
}

func insideFence(fences []fence.Fence, pos int) bool {
	for _, f := range fences {
		if pos >= f.FenceStart && pos < f.FenceEnd {
			return true
		}
	}
	return false
}

// insideQuotedSpan uses a parity heuristic consistent with the fence
// locator's in-block detection: an odd number of backticks or double quotes
// before the position means the match sits inside an open span.
func insideQuotedSpan(text string, pos int) bool {
	before := text[:pos]
	if strings.Count(before, "`")%2 == 1 {
		return true
	}
	if strings.Count(before, `"`)%2 == 1 {
		return true
	}
	return false
}

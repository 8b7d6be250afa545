// Package mapper resolves engine results back to document coordinates.
// The engine reports offsets relative to the text it was given (the fence's
// span texts joined by newlines), which may contain the same token several
// times; resolution first tries exact offset containment and only then a
// logged, lower-confidence substring fallback.
package mapper

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/quillcheck/quillcheck-backend/internal/analysis/engine"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// JoinSpans builds the engine input for one fence: the span texts separated
// by single newlines. The mapper reconstructs the same segment offsets, so
// the two must never disagree on the separator.
func JoinSpans(spans []domain.ExtractedSpan) string {
	parts := make([]string, len(spans))
	for i, s := range spans {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n")
}

// Mapper converts engine results into findings. It is safe for concurrent
// use; the match counters are atomic.
type Mapper struct {
	log *slog.Logger

	exactMatches    atomic.Int64
	fallbackMatches atomic.Int64
}

// Stats reports how results were resolved to spans since construction.
// A rising Fallback share signals mis-attribution risk worth investigating.
type Stats struct {
	Exact    int64
	Fallback int64
}

// New creates a Mapper.
func New(log *slog.Logger) *Mapper {
	return &Mapper{log: log.With("component", "mapper")}
}

// Stats returns the resolution counters.
func (m *Mapper) Stats() Stats {
	return Stats{Exact: m.exactMatches.Load(), Fallback: m.fallbackMatches.Load()}
}

// Input is one fence's worth of mapping work.
type Input struct {
	Results  []engine.Result
	Spans    []domain.ExtractedSpan
	Fence    domain.Fence
	Severity domain.Severity
	Lines    *LineIndex
}

// Map resolves each result to its owning span, computes absolute offsets and
// line/column, assigns message and confidence by span type, and deduplicates
// findings sharing (absoluteStart, absoluteEnd, word).
func (m *Mapper) Map(in Input) []domain.Finding {
	if len(in.Results) == 0 || len(in.Spans) == 0 {
		return nil
	}

	// Segment starts of each span inside the joined engine input.
	segStart := make([]int, len(in.Spans))
	off := 0
	for i, s := range in.Spans {
		segStart[i] = off
		off += len(s.Text) + 1
	}

	type dedupKey struct {
		start, end int
		word       string
	}
	seen := make(map[dedupKey]struct{}, len(in.Results))

	var findings []domain.Finding
	for _, res := range in.Results {
		span, spanRel, exact := m.resolve(res, in.Spans, segStart)
		if span == nil {
			m.log.Warn("engine result matched no span",
				slog.String("token", res.Token),
				slog.Int("offset", res.Offset),
				slog.Int("fence", in.Fence.Index))
			continue
		}

		abs := in.Fence.CodeStart + span.RelativeOffset + spanRel
		absEnd := abs + len(res.Token)
		key := dedupKey{start: abs, end: absEnd, word: res.Token}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		line, col := in.Lines.Locate(abs)
		findings = append(findings, domain.Finding{
			Word:          res.Token,
			AbsoluteStart: abs,
			AbsoluteEnd:   absEnd,
			LineNumber:    line,
			Column:        col,
			Severity:      in.Severity,
			Type:          string(span.Type),
			Language:      in.Fence.Language,
			Message:       message(span.Type, res.Token),
			Suggestions:   res.Suggestions,
			Confidence:    confidence(span.Type, res, exact),
			Source:        domain.SourceSpell,
		})
	}
	return findings
}

// resolve locates the span owning a result. Exact: the reported offset falls
// inside the span's segment and the text there literally equals the token.
// Fallback: first span whose text contains the token anywhere.
func (m *Mapper) resolve(res engine.Result, spans []domain.ExtractedSpan, segStart []int) (*domain.ExtractedSpan, int, bool) {
	for i := range spans {
		start := segStart[i]
		end := start + len(spans[i].Text)
		if res.Offset < start || res.Offset >= end {
			continue
		}
		rel := res.Offset - start
		if strings.HasPrefix(spans[i].Text[rel:], res.Token) {
			m.exactMatches.Add(1)
			return &spans[i], rel, true
		}
	}

	for i := range spans {
		if rel := strings.Index(spans[i].Text, res.Token); rel >= 0 {
			m.fallbackMatches.Add(1)
			m.log.Warn("span resolved by substring fallback",
				slog.String("token", res.Token),
				slog.Int("span", i))
			return &spans[i], rel, false
		}
	}
	return nil, 0, false
}

func message(typ domain.SpanType, token string) string {
	switch typ {
	case domain.SpanComment:
		return fmt.Sprintf("Possible misspelling in comment: %q", token)
	case domain.SpanString:
		return fmt.Sprintf("Possible misspelling in string literal: %q", token)
	default:
		return fmt.Sprintf("Possible misspelling in identifier: %q", token)
	}
}

// confidence scores a finding in [0.1, 1.0]. Comments read as prose and
// score higher; identifiers are often deliberate abbreviations and score
// lower; very short tokens are unreliable.
func confidence(typ domain.SpanType, res engine.Result, exact bool) float64 {
	score := 0.8
	switch typ {
	case domain.SpanComment:
		score += 0.1
	case domain.SpanIdentifier:
		score -= 0.1
	}
	switch n := len(res.Token); {
	case n <= 3:
		score -= 0.2
	case n <= 4:
		score -= 0.1
	case n >= 8:
		score += 0.1
	}
	if len(res.Suggestions) > 0 {
		score += 0.1
	}
	if !exact {
		score -= 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	if score < 0.1 {
		score = 0.1
	}
	return score
}

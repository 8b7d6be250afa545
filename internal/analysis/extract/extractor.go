// Package extract cuts spell-checkable spans out of one fence's code using a
// language profile. Offsets are relative to the start of the code block and
// are computed exactly once, at extraction time.
package extract

import (
	"sort"

	"github.com/quillcheck/quillcheck-backend/internal/analysis/profile"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// Options selects which span types to extract.
type Options struct {
	CheckComments    bool
	CheckStrings     bool
	CheckIdentifiers bool

	// MaxSpanChars skips spans longer than this many bytes to bound
	// analysis latency; zero means no ceiling.
	MaxSpanChars int
}

// DefaultOptions checks comments and strings but not identifiers.
func DefaultOptions() Options {
	return Options{CheckComments: true, CheckStrings: true}
}

// Extract returns the ordered spans of code worth spell-checking. Comments
// are matched before strings so literals embedded in a comment are not
// extracted twice; identifiers are only matched outside both.
func Extract(code string, p *profile.Profile, opts Options) []domain.ExtractedSpan {
	var spans []domain.ExtractedSpan
	covered := make([]bool, len(code))

	if opts.CheckComments {
		for _, rule := range p.Comments {
			spans = appendMatches(spans, covered, code, rule, domain.SpanComment, opts.MaxSpanChars)
		}
	}
	if opts.CheckStrings {
		for _, rule := range p.Strings {
			spans = appendMatches(spans, covered, code, rule, domain.SpanString, opts.MaxSpanChars)
		}
	}
	if opts.CheckIdentifiers && p.CheckIdentifiers && p.Identifier != nil {
		for _, loc := range p.Identifier.FindAllStringIndex(code, -1) {
			if overlaps(covered, loc[0], loc[1]) {
				continue
			}
			if opts.MaxSpanChars > 0 && loc[1]-loc[0] > opts.MaxSpanChars {
				continue
			}
			text := code[loc[0]:loc[1]]
			spans = append(spans, domain.ExtractedSpan{
				Type:           domain.SpanIdentifier,
				Text:           text,
				RelativeOffset: loc[0],
				OriginalMatch:  text,
			})
			mark(covered, loc[0], loc[1])
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].RelativeOffset < spans[j].RelativeOffset
	})
	return spans
}

func appendMatches(spans []domain.ExtractedSpan, covered []bool, code string, rule profile.Rule, typ domain.SpanType, maxChars int) []domain.ExtractedSpan {
	for _, loc := range rule.Pattern.FindAllStringSubmatchIndex(code, -1) {
		// loc[0:2] is the full match, loc[2:4] the payload group.
		if len(loc) < 4 || loc[2] < 0 {
			continue
		}
		if overlaps(covered, loc[0], loc[1]) {
			continue
		}
		payload := code[loc[2]:loc[3]]
		if payload == "" {
			mark(covered, loc[0], loc[1])
			continue
		}
		if maxChars > 0 && len(payload) > maxChars {
			mark(covered, loc[0], loc[1])
			continue
		}
		spans = append(spans, domain.ExtractedSpan{
			Type:           typ,
			Text:           payload,
			RelativeOffset: loc[2],
			OriginalMatch:  code[loc[0]:loc[1]],
		})
		mark(covered, loc[0], loc[1])
	}
	return spans
}

func overlaps(covered []bool, start, end int) bool {
	for i := start; i < end && i < len(covered); i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

func mark(covered []bool, start, end int) {
	for i := start; i < end && i < len(covered); i++ {
		covered[i] = true
	}
}

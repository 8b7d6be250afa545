package style

import (
	"regexp"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// Rule is one regex-based style check.
type Rule struct {
	Name       string
	Pattern    *regexp.Regexp
	Message    string
	Suggestion string
	Severity   domain.Severity
	Category   string

	// QuoteSensitive rules skip matches that sit inside quoted or inline
	// code spans, where the flagged phrasing may be deliberate.
	QuoteSensitive bool
}

// RuleSet is a named, ordered collection of rules.
type RuleSet struct {
	ID    string
	Name  string
	Rules []Rule
}

var ruleSets = map[string]*RuleSet{
	"default": {
		ID:   "default",
		Name: "General writing",
		Rules: []Rule{
			{
				Name:       "repeated-word",
				Pattern:    regexp.MustCompile(`(?i)\b(the the|a a|an an|is is|it it|to to|of of|and and|in in|that that)\b`),
				Message:    "Repeated word",
				Suggestion: "Remove the duplicate",
				Severity:   domain.SeverityWarning,
				Category:   "grammar",
			},
			{
				Name:       "double-space",
				Pattern:    regexp.MustCompile(`\S(  +)\S`),
				Message:    "Multiple consecutive spaces",
				Suggestion: "Use a single space",
				Severity:   domain.SeverityHint,
				Category:   "formatting",
			},
			{
				Name:           "very-unique",
				Pattern:        regexp.MustCompile(`(?i)\bvery unique\b`),
				Message:        "\"Unique\" is absolute and takes no intensifier",
				Suggestion:     "unique",
				Severity:       domain.SeverityInfo,
				Category:       "word-choice",
				QuoteSensitive: true,
			},
			{
				Name:           "irregardless",
				Pattern:        regexp.MustCompile(`(?i)\birregardless\b`),
				Message:        "Nonstandard word",
				Suggestion:     "regardless",
				Severity:       domain.SeverityWarning,
				Category:       "word-choice",
				QuoteSensitive: true,
			},
			{
				Name:       "could-of",
				Pattern:    regexp.MustCompile(`(?i)\b(could|would|should) of\b`),
				Message:    "\"of\" here should be \"have\"",
				Suggestion: "could have / would have / should have",
				Severity:   domain.SeverityWarning,
				Category:   "grammar",
			},
		},
	},
	"academic": {
		ID:   "academic",
		Name: "Academic writing",
		Rules: []Rule{
			{
				Name:           "first-person",
				Pattern:        regexp.MustCompile(`(?i)\b(I|we) (think|believe|feel)\b`),
				Message:        "Avoid first-person opinion phrasing in academic prose",
				Suggestion:     "State the claim directly with supporting evidence",
				Severity:       domain.SeverityInfo,
				Category:       "tone",
				QuoteSensitive: true,
			},
			{
				Name:       "contraction",
				Pattern:    regexp.MustCompile(`(?i)\b(don't|can't|won't|isn't|aren't|doesn't|didn't)\b`),
				Message:    "Contractions are informal for academic writing",
				Suggestion: "Spell out the full form",
				Severity:   domain.SeverityHint,
				Category:   "tone",
				QuoteSensitive: true,
			},
			{
				Name:       "a-lot",
				Pattern:    regexp.MustCompile(`(?i)\ba lot of\b`),
				Message:    "Vague quantifier",
				Suggestion: "many / a substantial number of",
				Severity:   domain.SeverityHint,
				Category:   "word-choice",
			},
		},
	},
	"technical": {
		ID:   "technical",
		Name: "Technical documentation",
		Rules: []Rule{
			{
				Name:       "simply",
				Pattern:    regexp.MustCompile(`(?i)\b(simply|just|easily|obviously)\b`),
				Message:    "Minimizing words frustrate readers the step does not come easily to",
				Suggestion: "Drop the qualifier",
				Severity:   domain.SeverityHint,
				Category:   "tone",
				QuoteSensitive: true,
			},
			{
				Name:       "click-here",
				Pattern:    regexp.MustCompile(`(?i)\bclick here\b`),
				Message:    "Link text should describe the destination",
				Suggestion: "Name the target page or action",
				Severity:   domain.SeverityInfo,
				Category:   "usability",
			},
			{
				Name:       "passive-marker",
				Pattern:    regexp.MustCompile(`(?i)\b(is|are|was|were) being \w+ed\b`),
				Message:    "Heavy passive construction",
				Suggestion: "Prefer the active voice",
				Severity:   domain.SeverityHint,
				Category:   "tone",
			},
		},
	},
}

// LookupRuleSet returns a named rule set.
func LookupRuleSet(name string) (*RuleSet, bool) {
	rs, ok := ruleSets[name]
	return rs, ok
}

// RuleSetIDs lists the registered rule set names.
func RuleSetIDs() []string {
	ids := make([]string, 0, len(ruleSets))
	for id := range ruleSets {
		ids = append(ids, id)
	}
	return ids
}

package style

import (
	"sort"
	"strings"
)

// Recommendation suggests a rule set for a document. Advisory only: callers
// must never require it for correctness.
type Recommendation struct {
	RuleSetID  string
	Confidence float64
	Reason     string
}

var ruleSetSignals = map[string][]string{
	"academic": {
		"methodology", "hypothesis", "literature", "abstract", "citation",
		"et al", "findings suggest", "empirical", "dissertation",
	},
	"technical": {
		"api", "endpoint", "deploy", "install", "configure", "cli",
		"repository", "function", "parameter", "runtime",
	},
}

// Recommend scores each rule set by keyword signals found in the text.
// The default set is always present as a low-confidence floor.
func Recommend(text string) []Recommendation {
	folded := strings.ToLower(text)

	recs := []Recommendation{{
		RuleSetID:  "default",
		Confidence: 0.3,
		Reason:     "general-purpose baseline",
	}}

	for id, signals := range ruleSetSignals {
		var hits []string
		for _, sig := range signals {
			if strings.Contains(folded, sig) {
				hits = append(hits, sig)
			}
		}
		if len(hits) == 0 {
			continue
		}
		confidence := 0.4 + 0.15*float64(len(hits))
		if confidence > 0.95 {
			confidence = 0.95
		}
		recs = append(recs, Recommendation{
			RuleSetID:  id,
			Confidence: confidence,
			Reason:     "matched signals: " + strings.Join(hits, ", "),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})
	return recs
}

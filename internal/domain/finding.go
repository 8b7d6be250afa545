package domain

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// FindingSource identifies which pipeline produced a finding.
type FindingSource string

const (
	SourceSpell FindingSource = "spell"
	SourceStyle FindingSource = "style"
)

// Finding is one reported issue, positioned in the coordinate space of the
// original document. Findings are immutable after creation.
type Finding struct {
	Word          string        `json:"word"`
	AbsoluteStart int           `json:"absoluteStart"`
	AbsoluteEnd   int           `json:"absoluteEnd"`
	LineNumber    int           `json:"lineNumber"`
	Column        int           `json:"column"`
	Severity      Severity      `json:"severity"`
	Type          string        `json:"type"`
	Language      string        `json:"language,omitempty"`
	Message       string        `json:"message"`
	Suggestions   []string      `json:"suggestions,omitempty"`
	Confidence    float64       `json:"confidence"`
	Source        FindingSource `json:"source"`
}

// Statistics summarizes one analysis pass.
type Statistics struct {
	CodeBlocks        int      `json:"codeBlocks"`
	LanguagesDetected []string `json:"languagesDetected"`
	IssuesFound       int      `json:"issuesFound"`

	// Truncated is set when a caller deadline aborted the pass between
	// fence boundaries and the findings are partial.
	Truncated bool `json:"truncated,omitempty"`
}

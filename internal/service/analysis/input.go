package analysis

import (
	"strings"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// Options tunes one analysis pass.
type Options struct {
	CheckComments    bool
	CheckStrings     bool
	CheckIdentifiers bool

	// Language is a default-language hint for fences without a tag. Tagged
	// fences keep their own tag; unknown hints leave untagged fences
	// skipped as before.
	Language string

	// StyleGuide names a style rule set to run over the document prose;
	// empty means no style pass.
	StyleGuide string

	// Severity assigned to spell findings; defaults to warning.
	Severity domain.Severity

	ExcludeCategories     []string
	IncludeCategoriesOnly []string
}

// DefaultOptions checks comments and strings.
func DefaultOptions() Options {
	return Options{CheckComments: true, CheckStrings: true}
}

// AnalyzeInput is one inbound analysis request.
type AnalyzeInput struct {
	Text        string
	CustomWords []string

	// Scope, when set, pulls the account's custom dictionary words into the
	// pass (gated by identity projection state).
	Scope *domain.Scope

	Options Options
}

// Validate checks structural validity; size limits are enforced separately
// because they depend on configuration.
func (in AnalyzeInput) Validate() error {
	if strings.TrimSpace(in.Text) == "" {
		return domain.NewValidationError("text", "required")
	}
	if in.Scope != nil {
		if err := in.Scope.Validate(); err != nil {
			return err
		}
	}
	switch in.Options.Severity {
	case "", domain.SeverityError, domain.SeverityWarning, domain.SeverityInfo, domain.SeverityHint:
	default:
		return domain.NewValidationError("options.severity", "unknown severity")
	}
	return nil
}

// AnalyzeResult is the response shape handed to the transport layer.
type AnalyzeResult struct {
	Findings   []domain.Finding
	Statistics domain.Statistics
}

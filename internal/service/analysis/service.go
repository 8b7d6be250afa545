// Package analysis orchestrates the code-aware document analysis pipeline:
// fence location, span extraction, spell checking, offset mapping, caching,
// and the independent style pass, merged into one finding list.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/quillcheck/quillcheck-backend/internal/analysis/cache"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/engine"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/extract"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/fence"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/mapper"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/profile"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/style"
	"github.com/quillcheck/quillcheck-backend/internal/config"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordProvider interface {
	WordsForAnalysis(ctx context.Context, scope domain.Scope) ([]string, error)
}

type styleEngine interface {
	Analyze(text, ruleSetName string, opts style.Options) ([]domain.Finding, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the document analysis business logic.
type Service struct {
	log     *slog.Logger
	checker engine.Checker
	cache   *cache.Cache
	mapper  *mapper.Mapper
	style   styleEngine
	words   wordProvider
	cfg     config.AnalysisConfig
}

// NewService creates a new analysis service. words may be nil when no
// dictionary integration is wanted (tests, standalone runs).
func NewService(
	logger *slog.Logger,
	checker engine.Checker,
	resultCache *cache.Cache,
	m *mapper.Mapper,
	styleEng styleEngine,
	words wordProvider,
	cfg config.AnalysisConfig,
) *Service {
	return &Service{
		log:     logger.With("service", "analysis"),
		checker: checker,
		cache:   resultCache,
		mapper:  m,
		style:   styleEng,
		words:   words,
		cfg:     cfg,
	}
}

// CacheStats exposes the result cache counters for health reporting.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// MapperStats exposes span-resolution counters for health reporting.
func (s *Service) MapperStats() mapper.Stats {
	return s.mapper.Stats()
}

// CheckerName reports which engine implementation was selected at startup.
func (s *Service) CheckerName() string {
	return s.checker.Name()
}

// AnalyzeDocument runs the full pipeline over one document. A caller
// deadline aborts between fence boundaries and yields partial results with
// the truncation flag set instead of an error.
func (s *Service) AnalyzeDocument(ctx context.Context, input AnalyzeInput) (*AnalyzeResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.MaxDocumentBytes > 0 && len(input.Text) > s.cfg.MaxDocumentBytes {
		return nil, fmt.Errorf("document is %d bytes, limit %d: %w",
			len(input.Text), s.cfg.MaxDocumentBytes, domain.ErrTooLarge)
	}

	opts := input.Options
	if !opts.CheckComments && !opts.CheckStrings && !opts.CheckIdentifiers {
		opts.CheckComments = true
		opts.CheckStrings = true
	}
	severity := opts.Severity
	if severity == "" {
		severity = domain.SeverityWarning
	}

	customWords := s.collectCustomWords(ctx, input)

	fences := fence.Locate(input.Text)
	if hint := fence.NormalizeLanguage(opts.Language); hint != "" {
		for i := range fences {
			if fences[i].OriginalLanguageTag == "" {
				fences[i].Language = hint
			}
		}
	}
	lines := mapper.NewLineIndex(input.Text)

	settings := cache.Settings{
		CheckComments:    opts.CheckComments,
		CheckStrings:     opts.CheckStrings,
		CheckIdentifiers: opts.CheckIdentifiers,
		Severity:         severity,
		CheckerName:      s.checker.Name(),
		CustomWords:      customWords,
	}

	perFence := make([][]domain.Finding, len(fences))
	var truncated atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fenceWorkers())

	for i, f := range fences {
		if ctx.Err() != nil {
			truncated.Store(true)
			break
		}
		i, f := i, f
		g.Go(func() error {
			if gctx.Err() != nil {
				truncated.Store(true)
				return nil
			}
			perFence[i] = s.analyzeFence(gctx, f, lines, severity, settings, customWords, opts)
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		truncated.Store(true)
	}

	var findings []domain.Finding
	languages := make(map[string]struct{})
	for i, f := range fences {
		findings = append(findings, perFence[i]...)
		if f.Language != "" {
			languages[f.Language] = struct{}{}
		}
	}

	if opts.StyleGuide != "" {
		styleFindings, err := s.style.Analyze(input.Text, opts.StyleGuide, style.Options{
			ExcludeCategories:     opts.ExcludeCategories,
			IncludeCategoriesOnly: opts.IncludeCategoriesOnly,
		})
		if err != nil {
			return nil, fmt.Errorf("style pass: %w", err)
		}
		findings = append(findings, styleFindings...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].AbsoluteStart < findings[j].AbsoluteStart
	})

	detected := make([]string, 0, len(languages))
	for lang := range languages {
		detected = append(detected, lang)
	}
	sort.Strings(detected)

	return &AnalyzeResult{
		Findings: findings,
		Statistics: domain.Statistics{
			CodeBlocks:        len(fences),
			LanguagesDetected: detected,
			IssuesFound:       len(findings),
			Truncated:         truncated.Load(),
		},
	}, nil
}

// analyzeFence runs extraction, checking, and mapping for one fence, served
// from the result cache when possible. Any cache misbehavior degrades to
// recomputation and never surfaces to the caller.
func (s *Service) analyzeFence(
	ctx context.Context,
	f fence.Fence,
	lines *mapper.LineIndex,
	severity domain.Severity,
	settings cache.Settings,
	customWords []string,
	opts Options,
) []domain.Finding {
	if f.Language == "" {
		s.log.Debug("fence without usable language tag skipped",
			slog.Int("fence", f.Index),
			slog.String("tag", f.OriginalLanguageTag))
		return nil
	}
	prof, ok := profile.Lookup(f.Language)
	if !ok {
		s.log.Warn("no language profile, fence skipped",
			slog.Int("fence", f.Index),
			slog.String("language", f.Language))
		return nil
	}

	key := cache.Key(f.Code, f.Language, settings)
	if cached, hit := s.cache.Get(key); hit {
		return shiftFindings(cached, f, lines)
	}

	spans := extract.Extract(f.Code, prof, extract.Options{
		CheckComments:    opts.CheckComments,
		CheckStrings:     opts.CheckStrings,
		CheckIdentifiers: opts.CheckIdentifiers,
		MaxSpanChars:     s.cfg.MaxSpanChars,
	})
	if len(spans) == 0 {
		s.cache.Set(key, nil)
		return nil
	}

	results := s.checker.Check(ctx, mapper.JoinSpans(spans), customWords)
	findings := s.mapper.Map(mapper.Input{
		Results:  results,
		Spans:    spans,
		Fence:    toDomainFence(f),
		Severity: severity,
		Lines:    lines,
	})

	s.cache.Set(key, normalizeForCache(findings, f))
	return findings
}

// collectCustomWords merges request-supplied words with the scope's stored
// dictionary. Dictionary failures degrade to fewer suppressions, never to a
// failed request.
func (s *Service) collectCustomWords(ctx context.Context, input AnalyzeInput) []string {
	words := append([]string(nil), input.CustomWords...)
	if input.Scope == nil || s.words == nil {
		return words
	}
	scoped, err := s.words.WordsForAnalysis(ctx, *input.Scope)
	if err != nil {
		s.log.Warn("custom dictionary unavailable, continuing without it",
			slog.String("scope", input.Scope.Key()),
			slog.String("error", err.Error()))
		return words
	}
	return append(words, scoped...)
}

func (s *Service) fenceWorkers() int {
	if s.cfg.FenceWorkers > 0 {
		return s.cfg.FenceWorkers
	}
	return 3
}

// normalizeForCache rebases findings to code-relative coordinates so a cache
// entry stays valid when identical code appears at a different document
// position.
func normalizeForCache(findings []domain.Finding, f fence.Fence) []domain.Finding {
	if len(findings) == 0 {
		return nil
	}
	out := make([]domain.Finding, len(findings))
	for i, fd := range findings {
		fd.AbsoluteStart -= f.CodeStart
		fd.AbsoluteEnd -= f.CodeStart
		fd.LineNumber = 0
		fd.Column = 0
		out[i] = fd
	}
	return out
}

// shiftFindings rebases cached code-relative findings onto this fence's
// document position.
func shiftFindings(cached []domain.Finding, f fence.Fence, lines *mapper.LineIndex) []domain.Finding {
	if len(cached) == 0 {
		return nil
	}
	out := make([]domain.Finding, len(cached))
	for i, fd := range cached {
		fd.AbsoluteStart += f.CodeStart
		fd.AbsoluteEnd += f.CodeStart
		fd.LineNumber, fd.Column = lines.Locate(fd.AbsoluteStart)
		out[i] = fd
	}
	return out
}

func toDomainFence(f fence.Fence) domain.Fence {
	return domain.Fence{
		Index:               f.Index,
		Language:            f.Language,
		OriginalLanguageTag: f.OriginalLanguageTag,
		FenceStart:          f.FenceStart,
		FenceEnd:            f.FenceEnd,
		CodeStart:           f.CodeStart,
		CodeEnd:             f.CodeEnd,
		StartLine:           f.StartLine,
		Code:                f.Code,
	}
}

package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillcheck/quillcheck-backend/internal/analysis/cache"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/engine"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/mapper"
	"github.com/quillcheck/quillcheck-backend/internal/analysis/style"
	"github.com/quillcheck/quillcheck-backend/internal/config"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockWordProvider struct {
	WordsForAnalysisFunc func(ctx context.Context, scope domain.Scope) ([]string, error)
}

func (m *mockWordProvider) WordsForAnalysis(ctx context.Context, scope domain.Scope) ([]string, error) {
	if m.WordsForAnalysisFunc != nil {
		return m.WordsForAnalysisFunc(ctx, scope)
	}
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(words wordProvider) *Service {
	log := testLogger()
	return NewService(
		log,
		engine.NewFallbackChecker(3),
		cache.New(64, time.Minute),
		mapper.New(log),
		style.NewEngine(log),
		words,
		config.AnalysisConfig{FenceWorkers: 3, MaxDocumentBytes: 1 << 20, MaxSpanChars: 10000},
	)
}

// ===========================================================================
// Tests
// ===========================================================================

func TestAnalyzeDocumentSpecScenario(t *testing.T) {
	doc := "```js\n// calulate total\nconst x = 1;\n```"
	svc := newTestService(nil)

	res, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Options: Options{CheckComments: true},
	})
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)

	f := res.Findings[0]
	assert.Equal(t, "calulate", f.Word)
	assert.Equal(t, []string{"calculate"}, f.Suggestions)
	assert.Equal(t, "comment", f.Type)
	assert.Equal(t, "calulate", doc[f.AbsoluteStart:f.AbsoluteEnd])
	assert.Equal(t, "javascript", f.Language)

	assert.Equal(t, 1, res.Statistics.CodeBlocks)
	assert.Equal(t, []string{"javascript"}, res.Statistics.LanguagesDetected)
	assert.Equal(t, 1, res.Statistics.IssuesFound)
	assert.False(t, res.Statistics.Truncated)
}

func TestAnalyzeDocumentIdempotentAndCached(t *testing.T) {
	doc := "```js\n// calulate total\n```"
	svc := newTestService(nil)
	input := AnalyzeInput{Text: doc, Options: Options{CheckComments: true}}

	first, err := svc.AnalyzeDocument(context.Background(), input)
	require.NoError(t, err)

	second, err := svc.AnalyzeDocument(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Findings, second.Findings)
	assert.Greater(t, svc.CacheStats().Hits, int64(0))
}

func TestAnalyzeDocumentCacheSharedAcrossPositions(t *testing.T) {
	// Identical code at a different document offset must still map findings
	// to its own position.
	svc := newTestService(nil)
	code := "```js\n// teh end\n```"

	res1, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{Text: code, Options: Options{CheckComments: true}})
	require.NoError(t, err)
	require.Len(t, res1.Findings, 1)

	shifted := "preamble line\n" + code
	res2, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{Text: shifted, Options: Options{CheckComments: true}})
	require.NoError(t, err)
	require.Len(t, res2.Findings, 1)

	assert.Equal(t, "teh", shifted[res2.Findings[0].AbsoluteStart:res2.Findings[0].AbsoluteEnd])
	assert.Equal(t, res1.Findings[0].AbsoluteStart+len("preamble line\n"), res2.Findings[0].AbsoluteStart)
}

func TestAnalyzeDocumentCustomWordSuppression(t *testing.T) {
	doc := "```js\n// teh acme\n```"
	svc := newTestService(nil)

	flagged, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Options: Options{CheckComments: true},
	})
	require.NoError(t, err)
	require.Len(t, flagged.Findings, 1)

	suppressed, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:        doc,
		CustomWords: []string{"teh"},
		Options:     Options{CheckComments: true},
	})
	require.NoError(t, err)
	assert.Empty(t, suppressed.Findings)
}

func TestAnalyzeDocumentScopedWordsSuppress(t *testing.T) {
	doc := "```js\n// teh plan\n```"
	words := &mockWordProvider{
		WordsForAnalysisFunc: func(_ context.Context, scope domain.Scope) ([]string, error) {
			assert.Equal(t, "7", scope.AccountID)
			return []string{"teh"}, nil
		},
	}
	svc := newTestService(words)

	res, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Scope:   &domain.Scope{AccountID: "7"},
		Options: Options{CheckComments: true},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
}

func TestAnalyzeDocumentDictionaryFailureDegrades(t *testing.T) {
	doc := "```js\n// teh plan\n```"
	words := &mockWordProvider{
		WordsForAnalysisFunc: func(context.Context, domain.Scope) ([]string, error) {
			return nil, errors.New("store down")
		},
	}
	svc := newTestService(words)

	res, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Scope:   &domain.Scope{AccountID: "7"},
		Options: Options{CheckComments: true},
	})
	require.NoError(t, err)
	// Degrades to more findings, not an error.
	assert.Len(t, res.Findings, 1)
}

func TestAnalyzeDocumentRejectsEmptyAndOversized(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	small := NewService(testLogger(), engine.NewFallbackChecker(3), cache.New(8, time.Minute),
		mapper.New(testLogger()), style.NewEngine(testLogger()), nil,
		config.AnalysisConfig{FenceWorkers: 1, MaxDocumentBytes: 10})
	_, err = small.AnalyzeDocument(context.Background(), AnalyzeInput{Text: "this text is longer than ten bytes"})
	assert.ErrorIs(t, err, domain.ErrTooLarge)
}

func TestAnalyzeDocumentUnknownLanguageSkipped(t *testing.T) {
	doc := "```mystery\n// calulate\n```\n```js\n// calulate\n```"
	svc := newTestService(nil)

	res, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Options: Options{CheckComments: true},
	})
	require.NoError(t, err)
	// The unknown fence is skipped, not fatal; the js fence still reports.
	assert.Len(t, res.Findings, 1)
	assert.Equal(t, 2, res.Statistics.CodeBlocks)
}

func TestAnalyzeDocumentLanguageHintAppliesToUntaggedFences(t *testing.T) {
	doc := "```\n// calulate total\n```"
	svc := newTestService(nil)

	// Without a hint the untagged fence is skipped.
	res, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Options: Options{CheckComments: true},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Findings)

	res, err = svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Options: Options{CheckComments: true, Language: "js"},
	})
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "calulate", res.Findings[0].Word)
	assert.Equal(t, "javascript", res.Findings[0].Language)
	assert.Equal(t, []string{"javascript"}, res.Statistics.LanguagesDetected)
}

func TestAnalyzeDocumentLanguageHintKeepsExplicitTags(t *testing.T) {
	// The tagged mystery fence stays skipped; the hint only fills gaps.
	doc := "```mystery\n// calulate\n```\n```\n# calulate\n```"
	svc := newTestService(nil)

	res, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Options: Options{CheckComments: true, Language: "python"},
	})
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "python", res.Findings[0].Language)
}

func TestAnalyzeDocumentMergesStyleFindings(t *testing.T) {
	doc := "This is very unique prose.\n```js\n// calulate\n```\n"
	svc := newTestService(nil)

	res, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Options: Options{CheckComments: true, StyleGuide: "default"},
	})
	require.NoError(t, err)
	require.Len(t, res.Findings, 2)

	// Stable sort by absolute offset: style finding first here.
	assert.Equal(t, domain.SourceStyle, res.Findings[0].Source)
	assert.Equal(t, domain.SourceSpell, res.Findings[1].Source)
	assert.LessOrEqual(t, res.Findings[0].AbsoluteStart, res.Findings[1].AbsoluteStart)
}

func TestAnalyzeDocumentExpiredDeadlineTruncates(t *testing.T) {
	doc := "```js\n// calulate\n```\n```js\n// recieve\n```"
	svc := newTestService(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.AnalyzeDocument(ctx, AnalyzeInput{
		Text:    doc,
		Options: Options{CheckComments: true},
	})
	require.NoError(t, err)
	assert.True(t, res.Statistics.Truncated)
	assert.Empty(t, res.Findings)
}

func TestAnalyzeDocumentFindingsWithinFenceBounds(t *testing.T) {
	doc := "pre\n```js\n// calulate and recieve\nconst s = \"teh wrold\";\n```\npost\n"
	svc := newTestService(nil)

	res, err := svc.AnalyzeDocument(context.Background(), AnalyzeInput{
		Text:    doc,
		Options: Options{CheckComments: true, CheckStrings: true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Findings)

	for _, f := range res.Findings {
		assert.Equal(t, f.Word, doc[f.AbsoluteStart:f.AbsoluteEnd])
	}
}

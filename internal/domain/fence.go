package domain

// Fence is one fenced code block located inside a document.
// All offsets are absolute byte indices into the original document string;
// they are computed once at locate time and never recomputed.
type Fence struct {
	// Index is the zero-based position of this fence among all fences
	// in the document, in document order.
	Index int

	// Language is the normalized language identifier ("javascript", "go", ...).
	// Empty when the fence carried no tag or an unknown one.
	Language string

	// OriginalLanguageTag is the tag exactly as written after the opening
	// delimiter ("js", "JS", "golang", ...).
	OriginalLanguageTag string

	// FenceStart is the offset of the first delimiter character.
	FenceStart int

	// FenceEnd is the offset just past the closing delimiter.
	FenceEnd int

	// CodeStart and CodeEnd delimit the inner code: document[CodeStart:CodeEnd].
	CodeStart int
	CodeEnd   int

	// StartLine is the 1-based line number of the opening delimiter.
	StartLine int

	// Code is the inner code text, equal to document[CodeStart:CodeEnd].
	Code string
}

// SpanType classifies an extracted sub-region of a fence's code.
type SpanType string

const (
	SpanComment    SpanType = "comment"
	SpanString     SpanType = "string"
	SpanIdentifier SpanType = "identifier"
)

// ExtractedSpan is a spell-checkable sub-region of one fence's code.
// RelativeOffset is the offset of Text within the fence's code, so the
// absolute document position of a token inside the span is a pure addition:
//
//	absolute = fence.CodeStart + span.RelativeOffset + tokenOffset
type ExtractedSpan struct {
	Type           SpanType
	Text           string
	RelativeOffset int

	// OriginalMatch is the full lexical match the payload was cut from,
	// including delimiters (the "/* ... */", the quotes, ...).
	OriginalMatch string
}

// End returns the exclusive end of the span in code-relative coordinates.
func (s ExtractedSpan) End() int {
	return s.RelativeOffset + len(s.Text)
}

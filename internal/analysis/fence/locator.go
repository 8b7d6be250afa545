// Package fence locates fenced code blocks inside a document without ever
// re-serializing the document: every offset is an index into the original
// string, so downstream position math stays byte-exact.
package fence

import "strings"

// languageAliases maps common fence tags to normalized language identifiers.
var languageAliases = map[string]string{
	"js":         "javascript",
	"javascript": "javascript",
	"jsx":        "javascript",
	"ts":         "typescript",
	"typescript": "typescript",
	"tsx":        "typescript",
	"py":         "python",
	"python":     "python",
	"rb":         "ruby",
	"ruby":       "ruby",
	"go":         "go",
	"golang":     "go",
	"java":       "java",
	"c":          "c",
	"h":          "c",
	"cpp":        "cpp",
	"c++":        "cpp",
	"cc":         "cpp",
	"cs":         "csharp",
	"csharp":     "csharp",
	"rs":         "rust",
	"rust":       "rust",
	"sh":         "bash",
	"bash":       "bash",
	"shell":      "bash",
	"zsh":        "bash",
	"sql":        "sql",
	"yaml":       "yaml",
	"yml":        "yaml",
	"kt":         "kotlin",
	"kotlin":     "kotlin",
	"php":        "php",
	"swift":      "swift",
}

// NormalizeLanguage maps a raw fence tag to its canonical language name.
// Unknown tags return the empty string.
func NormalizeLanguage(tag string) string {
	return languageAliases[strings.ToLower(strings.TrimSpace(tag))]
}

// Fence mirrors domain.Fence but is declared here so the package stays
// dependency-free; the analysis service converts to the domain type.
type Fence struct {
	Index               int
	Language            string
	OriginalLanguageTag string
	FenceStart          int
	FenceEnd            int
	CodeStart           int
	CodeEnd             int
	StartLine           int
	Code                string
}

// Locate scans the document and returns all top-level triple-backtick fences
// in document order. Indented fences are ignored. An opening delimiter with
// no closing delimiter is treated as running to the end of the document.
//
// Unknown or absent language tags still produce a Fence (with empty
// Language) so callers can keep the region reserved and offset-disjoint.
func Locate(document string) []Fence {
	var fences []Fence

	pos := 0
	line := 1
	inFence := false
	var current Fence

	for pos <= len(document) {
		lineEnd := strings.IndexByte(document[pos:], '\n')
		var next int
		var text string
		if lineEnd < 0 {
			text = document[pos:]
			next = len(document) + 1 // loop exit
		} else {
			text = document[pos : pos+lineEnd]
			next = pos + lineEnd + 1
		}

		if !inFence {
			if tag, ok := openingTag(text); ok {
				current = Fence{
					Index:               len(fences),
					Language:            NormalizeLanguage(tag),
					OriginalLanguageTag: tag,
					FenceStart:          pos,
					StartLine:           line,
				}
				// Code starts after the opening line's newline; when the
				// opening line is the last line the code is empty.
				if lineEnd < 0 {
					current.CodeStart = len(document)
				} else {
					current.CodeStart = next
				}
				inFence = true
			}
		} else {
			if isClosing(text) {
				current.CodeEnd = pos
				if lineEnd < 0 {
					current.FenceEnd = len(document)
				} else {
					current.FenceEnd = pos + len(text)
				}
				current.Code = document[current.CodeStart:current.CodeEnd]
				fences = append(fences, current)
				inFence = false
			}
		}

		pos = next
		line++
	}

	// Unterminated fence: runs to end of document.
	if inFence {
		current.CodeEnd = len(document)
		current.FenceEnd = len(document)
		current.Code = document[current.CodeStart:current.CodeEnd]
		fences = append(fences, current)
	}

	return fences
}

// openingTag reports whether the line opens a top-level fence and returns the
// raw tag. Only unindented triple-backtick lines count.
func openingTag(line string) (string, bool) {
	if !strings.HasPrefix(line, "```") {
		return "", false
	}
	rest := strings.TrimRight(line[3:], " \t\r")
	// A backtick in the tag means an inline code span, not a fence.
	if strings.Contains(rest, "`") {
		return "", false
	}
	// Tags are a single word; anything after whitespace is ignored.
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		rest = rest[:i]
	}
	return rest, true
}

// isClosing reports whether the line closes an open fence.
func isClosing(line string) bool {
	trimmed := strings.TrimRight(line, " \t\r")
	if trimmed != strings.Repeat("`", len(trimmed)) {
		return false
	}
	return len(trimmed) >= 3
}

package mapper

import (
	"sort"
	"strings"
)

// LineIndex resolves absolute document offsets to 1-based line/column pairs.
// Built once per document; safe for concurrent reads.
type LineIndex struct {
	starts []int
}

// NewLineIndex indexes the line start offsets of the document.
func NewLineIndex(document string) *LineIndex {
	starts := []int{0}
	off := 0
	for {
		i := strings.IndexByte(document[off:], '\n')
		if i < 0 {
			break
		}
		off += i + 1
		starts = append(starts, off)
	}
	return &LineIndex{starts: starts}
}

// Locate returns the 1-based line and column of an absolute offset.
func (ix *LineIndex) Locate(abs int) (line, column int) {
	i := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > abs }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, abs - ix.starts[i] + 1
}

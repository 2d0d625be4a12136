package parser

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

type Position struct {
	Offset int
	Line   int // 1-based
	Column int // 1-based, in bytes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineIndex maps byte offsets to line and column numbers. It is built once
// per source buffer.
type LineIndex struct {
	src    []byte
	starts []int
}

func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, ch := range src {
		if ch == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

func (li *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.src) {
		offset = len(li.src)
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - li.starts[line] + 1,
	}
}

// UTF16Column returns the 0-based column of offset counted in UTF-16 code
// units, the unit LSP clients use.
func (li *LineIndex) UTF16Column(offset int) int {
	pos := li.Position(offset)
	lineStart := li.starts[pos.Line-1]
	return utf16Len(li.src[lineStart:pos.Offset])
}

// OffsetOf converts a 0-based line and UTF-16 character back to a byte
// offset, clamping to the line end.
func (li *LineIndex) OffsetOf(line, character int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.starts) {
		return len(li.src)
	}
	off := li.starts[line]
	units := 0
	for off < len(li.src) && li.src[off] != '\n' && units < character {
		r, size := utf8.DecodeRune(li.src[off:])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		off += size
	}
	return off
}

func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		b = b[size:]
	}
	return n
}

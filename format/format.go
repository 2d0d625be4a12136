package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/asfmt/actionscript/parser"
)

// ErrTreeMismatch is returned when a tree does not cover the source it is
// printed against, typically because it was parsed from different text.
var ErrTreeMismatch = errors.New("format: tree does not match source")

type Printer struct {
	w    io.Writer
	opts Options
}

func NewPrinter(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, opts: opts.normalized()}
}

// Print writes the canonical layout of src. root must be the tree parsed
// from src.
func (p *Printer) Print(root *parser.Node, src []byte) error {
	if err := checkTree(root, src); err != nil {
		return err
	}
	items := flatten(root, src)
	if len(items) == 0 {
		return nil
	}

	var buf bytes.Buffer
	buf.WriteString(p.opts.indent(items[0].depth))
	buf.WriteString(items[0].text)
	for i := 1; i < len(items); i++ {
		a, b := items[i-1], items[i]
		s := spacingFor(pair{a: a, b: b, opts: p.opts})
		if n := s.lineFeeds(b.newlines); n > 0 {
			buf.WriteString(strings.Repeat("\n", n))
			buf.WriteString(p.opts.indent(b.depth))
		} else {
			n := s.Spaces
			if n == 0 && !b.adjacent && fuses(a, b) {
				n = 1
			}
			buf.WriteString(strings.Repeat(" ", n))
		}
		buf.WriteString(b.text)
	}
	if last := items[len(items)-1]; endsWithNewline(src, last.end) ||
		p.opts.InsertFinalNewline && !openAtEOF(last, src) {
		buf.WriteByte('\n')
	}

	_, err := p.w.Write(buf.Bytes())
	return err
}

func endsWithNewline(src []byte, lastEnd int) bool {
	return bytes.IndexByte(src[lastEnd:], '\n') >= 0
}

// openAtEOF reports whether last is an unclosed string or block comment
// running to the end of src; a newline appended to it would join the token.
func openAtEOF(last *item, src []byte) bool {
	if last.end != len(src) {
		return false
	}
	tok := parser.Token{Kind: last.kind, Start: last.start, End: last.end}
	return parser.Unterminated(tok, src)
}

// checkTree verifies that the leaves of root tile src exactly.
func checkTree(root *parser.Node, src []byte) error {
	if root == nil {
		return fmt.Errorf("%w: nil tree", ErrTreeMismatch)
	}
	if root.Kind != parser.KindFile {
		return fmt.Errorf("%w: root is %v, want File", ErrTreeMismatch, root.Kind)
	}
	pos := 0
	var err error
	root.Walk(func(n *parser.Node) bool {
		if err != nil {
			return false
		}
		if n.Token == nil {
			return true
		}
		tok := n.Token
		if tok.Start != pos || tok.End < tok.Start || tok.End > len(src) {
			err = fmt.Errorf("%w: %v token at %d-%d, expected offset %d", ErrTreeMismatch, tok.Kind, tok.Start, tok.End, pos)
			return false
		}
		pos = tok.End
		return true
	})
	if err != nil {
		return err
	}
	if pos != len(src) {
		return fmt.Errorf("%w: tree ends at %d, source is %d bytes", ErrTreeMismatch, pos, len(src))
	}
	return nil
}

// Format returns the canonical layout of src given its tree.
func Format(root *parser.Node, src []byte, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, opts).Print(root, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Source parses and formats src.
func Source(src []byte, opts Options) ([]byte, error) {
	return Format(parser.Parse(src), src, opts)
}

package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/asfmt/actionscript/parser"
)

// TreeJSONEncoder writes a syntax tree as indented JSON. Whitespace leaves
// are left out unless KeepWhitespace is set.
type TreeJSONEncoder struct {
	w              io.Writer
	KeepWhitespace bool
}

func NewTreeJSONEncoder(w io.Writer) *TreeJSONEncoder {
	return &TreeJSONEncoder{w: w}
}

func (e *TreeJSONEncoder) Encode(node *parser.Node, src []byte) error {
	text, err := e.MarshalText(node, src)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *TreeJSONEncoder) MarshalText(node *parser.Node, src []byte) ([]byte, error) {
	conv := treeConverter{src: src, lines: parser.NewLineIndex(src), keepWhitespace: e.KeepWhitespace}
	return json.MarshalIndent(conv.node(node), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Depth    int            `json:"depth"`
	Span     astJSONSpan    `json:"span"`
	Token    string         `json:"token,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type treeConverter struct {
	src            []byte
	lines          *parser.LineIndex
	keepWhitespace bool
}

func (c treeConverter) position(offset int) astJSONPosition {
	pos := c.lines.Position(offset)
	return astJSONPosition{Offset: pos.Offset, Line: pos.Line, Column: pos.Column}
}

func (c treeConverter) node(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:  n.Kind.String(),
		Depth: n.Depth,
		Span: astJSONSpan{
			Start: c.position(n.Span.Start),
			End:   c.position(n.Span.End),
		},
	}

	if n.Token != nil {
		jn.Token = n.Token.Kind.String()
		jn.Text = n.Token.Text(c.src)
	}

	for _, child := range n.Children {
		if !c.keepWhitespace && child.Token != nil && child.Token.Kind == parser.TokenWhitespace {
			continue
		}
		jn.Children = append(jn.Children, c.node(child))
	}

	return jn
}

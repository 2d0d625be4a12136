package format

import (
	"bytes"

	"github.com/dhamidi/asfmt/actionscript/parser"
)

type role uint8

const (
	roleNone role = iota
	roleUnary
	rolePostfix
	roleBinary
	roleTernaryColon
	roleTypeOpen
	roleTypeClose
)

// item is one significant token (comments included) in output order, with
// the layout context the spacing rules need. Adjacent source tokens that
// form a compound operator such as "++" or "===" share one item.
type item struct {
	kind  parser.TokenKind
	text  string
	start int
	end   int

	depth int
	owner parser.NodeKind

	// newlines counts line breaks in the source whitespace before the item;
	// adjacent means there was no whitespace at all.
	newlines int
	adjacent bool

	stmt     bool
	stmtKind parser.NodeKind
	endsStmt parser.NodeKind
	body     bool

	role   role
	parens int
	nest   int
	inner  parser.TokenKind
}

func (it *item) is(kind parser.TokenKind) bool {
	return it.kind == kind
}

func (it *item) isBlockBrace() bool {
	return it.owner == parser.KindBlock && (it.kind == parser.TokenLBrace || it.kind == parser.TokenRBrace)
}

func (it *item) isBlockOpen() bool {
	return it.owner == parser.KindBlock && it.kind == parser.TokenLBrace
}

func (it *item) isBlockClose() bool {
	return it.owner == parser.KindBlock && it.kind == parser.TokenRBrace
}

func (it *item) isExprOpen() bool {
	return it.owner != parser.KindBlock && it.kind == parser.TokenLBrace
}

func (it *item) isExprClose() bool {
	return it.owner != parser.KindBlock && it.kind == parser.TokenRBrace
}

func (it *item) isOperand() bool {
	return parser.IsOperand(it.kind) || it.role == rolePostfix || it.role == roleTypeClose
}

// compounds are operators the lexer splits into several tokens. Prefixes of
// longer entries must be listed too, since items grow one token at a time.
var compounds = map[string]bool{
	"++": true, "--": true,
	"+=": true, "-=": true, "*=": true, "/=": true,
	"===": true, "!==": true,
	"<<": true, ">>": true, ">>>": true,
	"<<=": true, ">>=": true, ">>>=": true,
	"&&=": true, "||=": true,
	"::": true, "..": true, "...": true,
}

func canMerge(last *item, kind parser.TokenKind, text string) bool {
	if last.kind.IsComment() || last.kind == parser.TokenString {
		return false
	}
	if last.kind == parser.TokenNumber && kind == parser.TokenIdent {
		return true
	}
	return compounds[last.text+text]
}

type flattener struct {
	src      []byte
	items    []*item
	stmt     bool
	stmtKind parser.NodeKind
	body     bool
	newlines int
	space    bool
}

// flatten lists the significant tokens of root in source order.
func flatten(root *parser.Node, src []byte) []*item {
	f := &flattener{src: src}
	f.visit(root, nil)
	annotate(f.items)
	return f.items
}

func (f *flattener) visit(n, parent *parser.Node) {
	if n.IsLeaf() {
		f.leaf(n, parent)
		return
	}
	inList := parent != nil && parent.Kind.IsStatementList() && n.Kind != parser.KindExpr
	if inList {
		f.stmt = true
		f.stmtKind = n.Kind
	}
	if parent != nil && !parent.Kind.IsStatementList() && n.Depth > parent.Depth {
		f.body = true
	}
	first := len(f.items)
	for _, child := range n.Children {
		f.visit(child, n)
	}
	if inList && len(f.items) > first {
		f.items[len(f.items)-1].endsStmt = n.Kind
	}
}

func (f *flattener) leaf(n, parent *parser.Node) {
	tok := *n.Token
	text := tok.Text(f.src)
	if tok.Kind == parser.TokenWhitespace {
		f.newlines += bytes.Count(f.src[tok.Start:tok.End], []byte{'\n'})
		f.space = true
		return
	}
	if len(f.items) > 0 && !f.space && !f.stmt && !f.body {
		if last := f.items[len(f.items)-1]; canMerge(last, tok.Kind, text) {
			last.text += text
			last.end = tok.End
			return
		}
	}
	owner := parser.KindFile
	if parent != nil {
		owner = parent.Kind
	}
	it := &item{
		kind:     tok.Kind,
		text:     text,
		start:    tok.Start,
		end:      tok.End,
		depth:    n.Depth,
		owner:    owner,
		newlines: f.newlines,
		adjacent: len(f.items) > 0 && !f.space,
		stmt:     f.stmt,
		stmtKind: f.stmtKind,
		body:     f.body,
	}
	f.items = append(f.items, it)
	f.stmt = false
	f.body = false
	f.newlines = 0
	f.space = false
}

type opener struct {
	kind    parser.TokenKind
	parens  int
	ternary int
}

// annotate assigns roles and bracket context in one forward pass. Bracket
// state is reset at every statement start and block brace so unbalanced
// input cannot leak into later statements.
func annotate(items []*item) {
	var (
		stack    []opener
		parens   int
		ternary  int
		typeArgs int
		prev     *item
	)
	for _, it := range items {
		if it.stmt || it.isBlockBrace() {
			stack = stack[:0]
			parens, ternary, typeArgs = 0, 0, 0
		}
		if it.kind.IsComment() {
			it.parens = parens
			it.nest = len(stack)
			it.depth += nestLevel(stack)
			continue
		}

		it.role = roleOf(it, prev, &ternary, &typeArgs)

		closes := false
		switch {
		case it.is(parser.TokenLParen), it.is(parser.TokenLBracket), it.isExprOpen():
			stack = append(stack, opener{kind: it.kind, parens: parens, ternary: ternary})
			ternary = 0
			if it.is(parser.TokenLParen) {
				parens++
			} else if it.is(parser.TokenLBrace) {
				parens = 0
			}
		case it.is(parser.TokenRParen), it.is(parser.TokenRBracket), it.isExprClose():
			closes = true
		}

		if closes {
			want := parser.TokenLParen
			switch it.kind {
			case parser.TokenRBracket:
				want = parser.TokenLBracket
			case parser.TokenRBrace:
				want = parser.TokenLBrace
			}
			if len(stack) > 0 && stack[len(stack)-1].kind == want {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				parens = top.parens
				ternary = top.ternary
			}
		}

		it.parens = parens
		it.nest = len(stack)
		if len(stack) > 0 {
			it.inner = stack[len(stack)-1].kind
		}
		depthStack := stack
		if it.is(parser.TokenLParen) || it.is(parser.TokenLBracket) || it.isExprOpen() {
			depthStack = stack[:len(stack)-1]
		}
		it.depth += nestLevel(depthStack)
		prev = it
	}
}

// nestLevel counts the open braces and brackets that indent continuation
// lines. Parentheses do not indent.
func nestLevel(stack []opener) int {
	n := 0
	for _, o := range stack {
		if o.kind != parser.TokenLParen {
			n++
		}
	}
	return n
}

func roleOf(it, prev *item, ternary, typeArgs *int) role {
	prevOperand := prev != nil && prev.isOperand()
	switch it.kind {
	case parser.TokenNot:
		return roleUnary
	case parser.TokenPlus, parser.TokenMinus:
		switch {
		case it.text == "++" || it.text == "--":
			if prevOperand {
				return rolePostfix
			}
			return roleUnary
		case len(it.text) > 1:
			return roleBinary
		case prevOperand:
			return roleBinary
		}
		return roleUnary
	case parser.TokenDot:
		if it.text == "..." {
			return roleUnary
		}
		return roleNone
	case parser.TokenLT:
		if prev != nil && prev.text == "." {
			*typeArgs++
			return roleTypeOpen
		}
		return roleBinary
	case parser.TokenGT:
		if *typeArgs > 0 && onlyGreater(it.text) {
			*typeArgs -= len(it.text)
			if *typeArgs < 0 {
				*typeArgs = 0
			}
			return roleTypeClose
		}
		return roleBinary
	case parser.TokenQuestion:
		*ternary++
		return roleBinary
	case parser.TokenColon:
		if it.text == "::" {
			return roleNone
		}
		if *ternary > 0 {
			*ternary--
			return roleTernaryColon
		}
		return roleNone
	}
	if it.kind.IsOperator() || compounds[it.text] {
		return roleBinary
	}
	return roleNone
}

func onlyGreater(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '>' {
			return false
		}
	}
	return s != ""
}

package parser

// TokenSource is a restartable token stream. Offset and Reset let the
// builder look ahead and rewind; the values are opaque to callers.
type TokenSource interface {
	Next() Token
	Offset() int
	Reset(offset int)
}

// sliceSource replays pre-scanned tokens, for callers that already hold the
// output of Tokenize.
type sliceSource struct {
	tokens []Token
	pos    int
}

func (s *sliceSource) Next() Token {
	if s.pos >= len(s.tokens) {
		end := 0
		if len(s.tokens) > 0 {
			end = s.tokens[len(s.tokens)-1].End
		}
		return Token{Kind: TokenEOF, Start: end, End: end}
	}
	tok := s.tokens[s.pos]
	s.pos++
	if tok.Kind == TokenEOF {
		s.pos = len(s.tokens)
	}
	return tok
}

func (s *sliceSource) Offset() int {
	return s.pos
}

func (s *sliceSource) Reset(offset int) {
	switch {
	case offset < 0:
		s.pos = 0
	case offset > len(s.tokens):
		s.pos = len(s.tokens)
	default:
		s.pos = offset
	}
}

// builder assembles the tree with open/close markers. Trivia is buffered as
// pending and attached to whichever node is innermost when the next
// significant token is consumed or the next node is opened, so trailing
// trivia of a closed node lands in its parent or following sibling.
type builder struct {
	src     TokenSource
	cur     Token
	pending []Token
	stack   []*Node
	depth   int
}

func newBuilder(src TokenSource) *builder {
	b := &builder{src: src}
	b.fill()
	return b
}

func (b *builder) fill() {
	for {
		tok := b.src.Next()
		if tok.Kind.IsTrivia() {
			b.pending = append(b.pending, tok)
			continue
		}
		b.cur = tok
		return
	}
}

func (b *builder) peek() TokenKind {
	return b.cur.Kind
}

func (b *builder) at(kind TokenKind) bool {
	return b.cur.Kind == kind
}

func (b *builder) eof() bool {
	return b.cur.Kind == TokenEOF
}

// peekPast returns the first significant kind for which skip is false,
// starting at the current token, without consuming anything.
func (b *builder) peekPast(skip func(TokenKind) bool) TokenKind {
	if !skip(b.cur.Kind) || b.eof() {
		return b.cur.Kind
	}
	saved := b.src.Offset()
	defer b.src.Reset(saved)
	for {
		tok := b.src.Next()
		if tok.Kind.IsTrivia() {
			continue
		}
		if tok.Kind == TokenEOF || !skip(tok.Kind) {
			return tok.Kind
		}
	}
}

func (b *builder) top() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *builder) leaf(tok Token) *Node {
	t := tok
	return &Node{
		Kind:  KindToken,
		Span:  Span{Start: tok.Start, End: tok.End},
		Depth: b.depth,
		Token: &t,
	}
}

// flush attaches pending trivia to the innermost open node at the current
// depth.
func (b *builder) flush() {
	if len(b.stack) == 0 {
		return
	}
	parent := b.top()
	for _, tok := range b.pending {
		parent.AddChild(b.leaf(tok))
	}
	b.pending = b.pending[:0]
}

// advance consumes the current significant token. At EOF it does nothing.
func (b *builder) advance() {
	if b.eof() {
		return
	}
	b.flush()
	b.top().AddChild(b.leaf(b.cur))
	b.fill()
}

// accept consumes the current token if it is of kind.
func (b *builder) accept(kind TokenKind) bool {
	if b.cur.Kind != kind {
		return false
	}
	b.advance()
	return true
}

func (b *builder) open(kind NodeKind) *Node {
	b.flush()
	n := &Node{Kind: kind, Depth: b.depth}
	b.stack = append(b.stack, n)
	return n
}

func (b *builder) close() *Node {
	n := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	if len(n.Children) > 0 {
		n.Span.Start = n.Children[0].Span.Start
		n.Span.End = n.Children[len(n.Children)-1].Span.End
	} else {
		n.Span = Span{Start: b.cur.Start, End: b.cur.Start}
	}
	if len(b.stack) > 0 {
		b.top().AddChild(n)
	}
	return n
}

package parser

import (
	"unicode"
	"unicode/utf8"
)

// Lexer scans ActionScript source one token at a time. It never fails:
// anything it does not recognise becomes a TokenBadChar of one input unit,
// and every call to Next consumes at least one byte until EOF.
type Lexer struct {
	input []byte
	pos   int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input}
}

// Offset returns the byte offset the next token will start at.
func (l *Lexer) Offset() int {
	return l.pos
}

// Reset moves the lexer to a previously saved offset. Offsets outside the
// input are clamped.
func (l *Lexer) Reset(offset int) {
	switch {
	case offset < 0:
		l.pos = 0
	case offset > len(l.input):
		l.pos = len(l.input)
	default:
		l.pos = offset
	}
}

func (l *Lexer) Input() []byte {
	return l.input
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return utf8.RuneError, 0
	}
	ch := l.input[l.pos]
	if ch < utf8.RuneSelf {
		return rune(ch), 1
	}
	return utf8.DecodeRune(l.input[l.pos:])
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// Next returns the token at the current offset and advances past it. At the
// end of input it returns a zero-width TokenEOF, repeatedly.
func (l *Lexer) Next() Token {
	start := l.pos
	if l.atEnd() {
		return Token{Kind: TokenEOF, Start: start, End: start}
	}

	r, size := l.peekRune()

	switch {
	case isSpace(r):
		return l.scanWhitespace(start)
	case r == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case r == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case r == '"' || r == '\'':
		return l.scanString(start, byte(r))
	case isDigit(r):
		return l.scanNumber(start)
	case isIdentStart(r, size):
		return l.scanIdentOrKeyword(start)
	}

	return l.scanOperator(start, size)
}

func (l *Lexer) scanWhitespace(start int) Token {
	for !l.atEnd() {
		r, size := l.peekRune()
		if !isSpace(r) {
			break
		}
		l.pos += size
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start int) Token {
	l.pos += 2
	for !l.atEnd() && l.peek() != '\n' {
		l.pos++
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start int) Token {
	l.pos += 2
	for !l.atEnd() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.pos += 2
			break
		}
		l.pos++
	}
	return l.token(TokenBlockComment, start)
}

func (l *Lexer) scanString(start int, quote byte) Token {
	l.pos++
	for !l.atEnd() && l.peek() != quote {
		if l.peek() == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		l.pos++
	}
	if !l.atEnd() {
		l.pos++
	}
	return l.token(TokenString, start)
}

// scanNumber accepts any run of digits and dots, so "1.2.3" is a single
// number token.
func (l *Lexer) scanNumber(start int) Token {
	for !l.atEnd() {
		ch := l.peek()
		if !(ch >= '0' && ch <= '9') && ch != '.' {
			break
		}
		l.pos++
	}
	return l.token(TokenNumber, start)
}

func (l *Lexer) scanIdentOrKeyword(start int) Token {
	for !l.atEnd() {
		r, size := l.peekRune()
		if !isIdentPart(r, size) {
			break
		}
		l.pos += size
	}
	tok := l.token(TokenIdent, start)
	tok.Kind = LookupKeyword(string(l.input[start:l.pos]))
	return tok
}

func (l *Lexer) scanOperator(start, size int) Token {
	ch := l.peek()

	switch ch {
	case '{':
		return l.single(TokenLBrace, start)
	case '}':
		return l.single(TokenRBrace, start)
	case '[':
		return l.single(TokenLBracket, start)
	case ']':
		return l.single(TokenRBracket, start)
	case '(':
		return l.single(TokenLParen, start)
	case ')':
		return l.single(TokenRParen, start)
	case ';':
		return l.single(TokenSemicolon, start)
	case ',':
		return l.single(TokenComma, start)
	case '.':
		return l.single(TokenDot, start)
	case ':':
		return l.single(TokenColon, start)
	case '+':
		return l.single(TokenPlus, start)
	case '-':
		return l.single(TokenMinus, start)
	case '*':
		return l.single(TokenStar, start)
	case '/':
		return l.single(TokenSlash, start)
	case '?':
		return l.single(TokenQuestion, start)
	case '=':
		return l.pair('=', TokenEQ, TokenAssign, start)
	case '<':
		return l.pair('=', TokenLE, TokenLT, start)
	case '>':
		return l.pair('=', TokenGE, TokenGT, start)
	case '!':
		return l.pair('=', TokenNE, TokenNot, start)
	case '&':
		return l.pair('&', TokenAnd, TokenBadChar, start)
	case '|':
		return l.pair('|', TokenOr, TokenBadChar, start)
	}

	if size < 1 {
		size = 1
	}
	l.pos += size
	return l.token(TokenBadChar, start)
}

func (l *Lexer) single(kind TokenKind, start int) Token {
	l.pos++
	return l.token(kind, start)
}

// pair consumes a two-character operator when the next byte is second,
// otherwise the one-character fallback.
func (l *Lexer) pair(second byte, double, fallback TokenKind, start int) Token {
	if l.peekN(1) == second {
		l.pos += 2
		return l.token(double, start)
	}
	l.pos++
	return l.token(fallback, start)
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	return Token{Kind: kind, Start: start, End: l.pos}
}

// Tokenize scans the whole input. The result covers [0, len(src)) without
// gaps and does not include the trailing EOF token.
func Tokenize(src []byte) []Token {
	l := NewLexer(src)
	tokens := make([]Token, 0, len(src)/3+1)
	for {
		tok := l.Next()
		if tok.Kind == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpace(r rune) bool {
	if r < utf8.RuneSelf {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
	}
	return unicode.IsSpace(r)
}

// isIdentStart treats a decoding error as not-a-letter so invalid bytes fall
// through to a one-byte bad character.
func isIdentStart(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune, size int) bool {
	return isIdentStart(r, size) || unicode.IsDigit(r)
}

package parser

import (
	"strings"
	"testing"
)

func TestLexerKeywords(t *testing.T) {
	for word, kind := range keywords {
		t.Run(word, func(t *testing.T) {
			tok := NewLexer([]byte(word)).Next()
			if tok.Kind != kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, kind)
			}
			if !tok.Kind.IsKeyword() {
				t.Errorf("%v.IsKeyword() = false, want true", tok.Kind)
			}
			if tok.End != len(word) {
				t.Errorf("End = %d, want %d", tok.End, len(word))
			}
		})
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{
		"foo",
		"Bar",
		"_private",
		"camelCase",
		"with123Numbers",
		"classy",
		"größe",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			src := []byte(input)
			tok := NewLexer(src).Next()
			if tok.Kind != TokenIdent {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenIdent)
			}
			if got := tok.Text(src); got != input {
				t.Errorf("Text = %q, want %q", got, input)
			}
		})
	}
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		input string
		kinds []TokenKind
	}{
		{"{", []TokenKind{TokenLBrace}},
		{"}", []TokenKind{TokenRBrace}},
		{"[]", []TokenKind{TokenLBracket, TokenRBracket}},
		{"()", []TokenKind{TokenLParen, TokenRParen}},
		{";,.:", []TokenKind{TokenSemicolon, TokenComma, TokenDot, TokenColon}},
		{"=", []TokenKind{TokenAssign}},
		{"==", []TokenKind{TokenEQ}},
		{"===", []TokenKind{TokenEQ, TokenAssign}},
		{"!=", []TokenKind{TokenNE}},
		{"!", []TokenKind{TokenNot}},
		{"<=", []TokenKind{TokenLE}},
		{"<", []TokenKind{TokenLT}},
		{">=", []TokenKind{TokenGE}},
		{">", []TokenKind{TokenGT}},
		{"&&", []TokenKind{TokenAnd}},
		{"||", []TokenKind{TokenOr}},
		{"&", []TokenKind{TokenBadChar}},
		{"|", []TokenKind{TokenBadChar}},
		{"&|", []TokenKind{TokenBadChar, TokenBadChar}},
		{"+-*/?", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenQuestion}},
		{"++", []TokenKind{TokenPlus, TokenPlus}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize([]byte(tt.input))
			if len(tokens) != len(tt.kinds) {
				t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(tt.kinds), tokens)
			}
			for i, tok := range tokens {
				if tok.Kind != tt.kinds[i] {
					t.Errorf("token %d: Kind = %v, want %v", i, tok.Kind, tt.kinds[i])
				}
			}
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  TokenKind
		text  string
	}{
		{"integer", "42;", TokenNumber, "42"},
		{"decimal", "3.14 ", TokenNumber, "3.14"},
		{"multiple dots", "1.2.3", TokenNumber, "1.2.3"},
		{"double quoted", `"hello" x`, TokenString, `"hello"`},
		{"single quoted", `'hi'`, TokenString, `'hi'`},
		{"escaped quote", `"a\"b"`, TokenString, `"a\"b"`},
		{"other quote inside", `"it's"`, TokenString, `"it's"`},
		{"escaped backslash", `"a\\" + b`, TokenString, `"a\\"`},
		{"unterminated", `"abc`, TokenString, `"abc`},
		{"unterminated newline", "'abc\ndef", TokenString, "'abc\ndef"},
		{"line comment", "// hi\nx", TokenLineComment, "// hi"},
		{"line comment at eof", "// hi", TokenLineComment, "// hi"},
		{"block comment", "/* a\nb */x", TokenBlockComment, "/* a\nb */"},
		{"unterminated block comment", "/* a", TokenBlockComment, "/* a"},
		{"whitespace", " \t\r\n x", TokenWhitespace, " \t\r\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []byte(tt.input)
			tok := NewLexer(src).Next()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if got := tok.Text(src); got != tt.text {
				t.Errorf("Text = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestLexerBadCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
	}{
		{"hash", "#", 1},
		{"at", "@", 1},
		{"multibyte symbol", "€", len("€")},
		{"invalid utf8", "\xff", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewLexer([]byte(tt.input)).Next()
			if tok.Kind != TokenBadChar {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenBadChar)
			}
			if tok.Len() != tt.width {
				t.Errorf("Len = %d, want %d", tok.Len(), tt.width)
			}
		})
	}
}

func TestLexerEOF(t *testing.T) {
	l := NewLexer([]byte("x"))
	l.Next()
	for i := 0; i < 3; i++ {
		tok := l.Next()
		if tok.Kind != TokenEOF {
			t.Fatalf("Kind = %v, want EOF", tok.Kind)
		}
		if tok.Start != 1 || tok.End != 1 {
			t.Errorf("EOF span = %d-%d, want 1-1", tok.Start, tok.End)
		}
	}
}

func TestLexerReset(t *testing.T) {
	src := []byte("var a = b;")
	l := NewLexer(src)
	l.Next()
	saved := l.Offset()
	first := l.Next()
	l.Next()
	l.Reset(saved)
	again := l.Next()
	if first != again {
		t.Errorf("after Reset got %v, want %v", again, first)
	}

	l.Reset(-5)
	if l.Offset() != 0 {
		t.Errorf("Offset = %d after negative Reset, want 0", l.Offset())
	}
	l.Reset(1000)
	if l.Offset() != len(src) {
		t.Errorf("Offset = %d after large Reset, want %d", l.Offset(), len(src))
	}
}

func TestTokenizeCoversInput(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"class A {\n    var b: int;\n}",
		"if(a&&b||!c){x=1.5;}else{y='s\\'';}",
		"/* unterminated",
		"\"unterminated",
		"#@$%^~`\\",
		"a & b | c",
		"\xff\xfe\x00abc",
		"日本語 = \"テキスト\"; // コメント",
		strings.Repeat("((([[[{{{", 50),
	}

	for _, input := range inputs {
		src := []byte(input)
		tokens := Tokenize(src)
		var sb strings.Builder
		pos := 0
		for _, tok := range tokens {
			if tok.Start != pos {
				t.Fatalf("%q: gap or overlap at %d (token starts at %d)", input, pos, tok.Start)
			}
			if tok.End <= tok.Start {
				t.Fatalf("%q: empty token %v at %d", input, tok.Kind, tok.Start)
			}
			sb.WriteString(tok.Text(src))
			pos = tok.End
		}
		if sb.String() != input {
			t.Errorf("round trip = %q, want %q", sb.String(), input)
		}
	}
}

func TestTokenKindCategory(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want Category
	}{
		{TokenClass, CategoryKeyword},
		{TokenThrow, CategoryKeyword},
		{TokenIdent, CategoryIdentifier},
		{TokenString, CategoryString},
		{TokenNumber, CategoryNumber},
		{TokenLineComment, CategoryComment},
		{TokenBlockComment, CategoryComment},
		{TokenPlus, CategoryOperator},
		{TokenQuestion, CategoryOperator},
		{TokenLBrace, CategoryPunctuation},
		{TokenSemicolon, CategoryPunctuation},
		{TokenBadChar, CategoryBadChar},
		{TokenWhitespace, CategoryDefault},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Category(); got != tt.want {
				t.Errorf("Category() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineIndex(t *testing.T) {
	src := []byte("ab\ncd\n\U0001F600x")
	li := NewLineIndex(src)

	if li.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", li.LineCount())
	}

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{6, 3, 1},
		{100, 3, 6},
	}
	for _, tt := range tests {
		pos := li.Position(tt.offset)
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("Position(%d) = %v, want %d:%d", tt.offset, pos, tt.line, tt.column)
		}
	}

	xOffset := len(src) - 1
	if got := li.UTF16Column(xOffset); got != 2 {
		t.Errorf("UTF16Column = %d, want 2", got)
	}
	if got := li.OffsetOf(2, 2); got != xOffset {
		t.Errorf("OffsetOf(2, 2) = %d, want %d", got, xOffset)
	}
	if got := li.OffsetOf(0, 99); got != 2 {
		t.Errorf("OffsetOf(0, 99) = %d, want 2", got)
	}
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"clean", `var s = "ok"; /* c */`, nil},
		{"bad char", "a # b", []string{`unexpected character "#"`}},
		{"lone ampersand", "a & b", []string{`unexpected character "&"`}},
		{"unterminated string", `x = "abc`, []string{"unterminated string literal"}},
		{"escaped closing quote", `x = "abc\"`, []string{"unterminated string literal"}},
		{"unterminated comment", "x /* abc", []string{"unterminated block comment"}},
		{"comment opener only", "/*/", []string{"unterminated block comment"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []byte(tt.input)
			diags := Diagnose(src, Tokenize(src))
			if len(diags) != len(tt.want) {
				t.Fatalf("got %d diagnostics %v, want %d", len(diags), diags, len(tt.want))
			}
			for i, d := range diags {
				if d.Message != tt.want[i] {
					t.Errorf("diagnostic %d = %q, want %q", i, d.Message, tt.want[i])
				}
			}
		})
	}
}

package parser

import "fmt"

// Diagnostic is a lexical problem the parser recovered from. None of them
// stop parsing or formatting.
type Diagnostic struct {
	Span    Span
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d-%d: %s", d.Span.Start, d.Span.End, d.Message)
}

// Diagnose reports bad characters, unterminated strings and unterminated
// block comments in tokens.
func Diagnose(src []byte, tokens []Token) []Diagnostic {
	var diags []Diagnostic
	for _, tok := range tokens {
		span := Span{Start: tok.Start, End: tok.End}
		switch tok.Kind {
		case TokenBadChar:
			diags = append(diags, Diagnostic{
				Span:    span,
				Message: fmt.Sprintf("unexpected character %q", tok.Text(src)),
			})
		case TokenString:
			if Unterminated(tok, src) {
				diags = append(diags, Diagnostic{Span: span, Message: "unterminated string literal"})
			}
		case TokenBlockComment:
			if Unterminated(tok, src) {
				diags = append(diags, Diagnostic{Span: span, Message: "unterminated block comment"})
			}
		}
	}
	return diags
}

// Unterminated reports whether tok is a string literal or block comment
// that is missing its closing delimiter.
func Unterminated(tok Token, src []byte) bool {
	text := tok.Text(src)
	switch tok.Kind {
	case TokenString:
		return !closedString(text)
	case TokenBlockComment:
		return len(text) < 4 || text[len(text)-2:] != "*/"
	}
	return false
}

func closedString(text string) bool {
	if len(text) < 2 || text[len(text)-1] != text[0] {
		return false
	}
	// the closing quote must not be escaped
	backslashes := 0
	for i := len(text) - 2; i > 0 && text[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}

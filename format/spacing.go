package format

import "github.com/dhamidi/asfmt/actionscript/parser"

// Spacing describes what goes between two adjacent items: a number of
// spaces on the same line, or line feeds followed by indentation.
//
// MinLineFeeds forces line breaks. With KeepLineBreaks, line breaks present
// in the source are kept, at most KeepBlankLines of them blank.
type Spacing struct {
	Spaces         int
	MinLineFeeds   int
	KeepLineBreaks bool
	KeepBlankLines int
}

// lineFeeds returns how many line feeds to emit given the number found in
// the source. Zero means stay on the same line.
func (s Spacing) lineFeeds(source int) int {
	n := s.MinLineFeeds
	if s.KeepLineBreaks && source > n {
		kept := source
		if kept > s.KeepBlankLines+1 {
			kept = s.KeepBlankLines + 1
		}
		if kept > n {
			n = kept
		}
	}
	return n
}

func spaces(n int) Spacing {
	return Spacing{Spaces: n}
}

func lines(min, blank int) Spacing {
	return Spacing{MinLineFeeds: min, KeepLineBreaks: true, KeepBlankLines: blank}
}

func keep(n, blank int) Spacing {
	return Spacing{Spaces: n, KeepLineBreaks: true, KeepBlankLines: blank}
}

type pair struct {
	a, b *item
	opts Options
}

// A spacingRule decides the spacing for a pair or reports that it does not
// apply.
type spacingRule struct {
	name  string
	apply func(p pair) (Spacing, bool)
}

// spacingRules are tried in order; the first that applies wins.
var spacingRules = []spacingRule{
	{"close block", func(p pair) (Spacing, bool) {
		return lines(1, 0), p.b.isBlockClose()
	}},
	{"after line comment", func(p pair) (Spacing, bool) {
		return lines(1, p.opts.MaxBlankLines), p.a.is(parser.TokenLineComment)
	}},
	{"around comment", func(p pair) (Spacing, bool) {
		if !p.a.kind.IsComment() && !p.b.kind.IsComment() {
			return Spacing{}, false
		}
		if p.a.isBlockOpen() {
			return keep(1, 0), true
		}
		return keep(1, p.opts.MaxBlankLines), true
	}},
	{"around bad character", func(p pair) (Spacing, bool) {
		if !p.a.is(parser.TokenBadChar) && !p.b.is(parser.TokenBadChar) {
			return Spacing{}, false
		}
		if p.b.adjacent {
			return spaces(0), true
		}
		return keep(1, p.opts.MaxBlankLines), true
	}},
	{"statement start", func(p pair) (Spacing, bool) {
		if !p.b.stmt {
			return Spacing{}, false
		}
		if p.a.isBlockOpen() {
			return lines(1, 0), true
		}
		if p.opts.BlankLineBetweenDeclarations && separatedDeclarations(p.a.endsStmt, p.b.stmtKind) {
			return lines(2, p.opts.MaxBlankLines), true
		}
		return lines(1, p.opts.MaxBlankLines), true
	}},
	{"body without braces", func(p pair) (Spacing, bool) {
		return lines(1, 0), p.b.body
	}},
	{"open block", func(p pair) (Spacing, bool) {
		return lines(1, 0), p.a.isBlockOpen()
	}},
	{"after block", func(p pair) (Spacing, bool) {
		if !p.a.isBlockClose() {
			return Spacing{}, false
		}
		switch p.b.kind {
		case parser.TokenSemicolon, parser.TokenComma, parser.TokenRParen:
			return spaces(0), true
		case parser.TokenElse, parser.TokenCatch, parser.TokenFinally, parser.TokenWhile:
			return spaces(1), true
		}
		return lines(1, p.opts.MaxBlankLines), true
	}},
	{"before separator", func(p pair) (Spacing, bool) {
		return spaces(0), p.b.is(parser.TokenSemicolon) || p.b.is(parser.TokenComma)
	}},
	{"name operators", func(p pair) (Spacing, bool) {
		glued := p.a.text == "::" || p.b.text == "::" || p.a.text == ".." || p.b.text == ".."
		return spaces(0), glued || p.a.text == "..."
	}},
	{"member access", func(p pair) (Spacing, bool) {
		return spaces(0), p.a.text == "." || p.b.text == "."
	}},
	{"after comma", func(p pair) (Spacing, bool) {
		if !p.a.is(parser.TokenComma) {
			return Spacing{}, false
		}
		if p.a.inner == parser.TokenLBrace || p.a.inner == parser.TokenLBracket {
			return keep(1, 0), true
		}
		return spaces(1), true
	}},
	{"type arguments", func(p pair) (Spacing, bool) {
		return spaces(0), p.a.role == roleTypeOpen || p.b.role == roleTypeClose || p.b.role == roleTypeOpen
	}},
	{"unary operator", func(p pair) (Spacing, bool) {
		return spaces(0), p.a.role == roleUnary || p.b.role == rolePostfix
	}},
	{"call parentheses", func(p pair) (Spacing, bool) {
		if !p.b.is(parser.TokenLParen) {
			return Spacing{}, false
		}
		switch p.a.kind {
		case parser.TokenIdent, parser.TokenThis, parser.TokenSuper,
			parser.TokenRParen, parser.TokenRBracket:
			return spaces(0), true
		}
		return spaces(0), p.a.role == roleTypeClose
	}},
	{"inside parentheses", func(p pair) (Spacing, bool) {
		return spaces(0), p.a.is(parser.TokenLParen) || p.b.is(parser.TokenRParen)
	}},
	{"inside brackets", func(p pair) (Spacing, bool) {
		return keep(0, 0), p.a.is(parser.TokenLBracket) || p.b.is(parser.TokenRBracket)
	}},
	{"index", func(p pair) (Spacing, bool) {
		return spaces(0), p.b.is(parser.TokenLBracket) && p.a.isOperand()
	}},
	{"inside braces", func(p pair) (Spacing, bool) {
		if p.a.isExprOpen() && p.b.isExprClose() {
			return spaces(0), true
		}
		return keep(1, 0), p.a.isExprOpen() || p.b.isExprClose()
	}},
	{"colon", func(p pair) (Spacing, bool) {
		if p.b.is(parser.TokenColon) {
			if p.b.role == roleTernaryColon {
				return spaces(1), true
			}
			return spaces(0), true
		}
		return spaces(1), p.a.is(parser.TokenColon)
	}},
	{"before block", func(p pair) (Spacing, bool) {
		return spaces(1), p.b.isBlockOpen()
	}},
	{"after semicolon", func(p pair) (Spacing, bool) {
		if !p.a.is(parser.TokenSemicolon) {
			return Spacing{}, false
		}
		switch {
		case p.a.parens > 0:
			return spaces(1), true
		case p.a.nest > 0:
			return keep(1, 0), true
		}
		return lines(1, p.opts.MaxBlankLines), true
	}},
	{"binary operator", func(p pair) (Spacing, bool) {
		return spaces(1), p.a.role == roleBinary || p.b.role == roleBinary
	}},
	{"after keyword", func(p pair) (Spacing, bool) {
		return spaces(1), p.a.kind.IsKeyword()
	}},
}

var defaultSpacing = spaces(1)

func spacingFor(p pair) Spacing {
	for _, rule := range spacingRules {
		if s, ok := rule.apply(p); ok {
			return s
		}
	}
	return defaultSpacing
}

// ruleFor names the rule that decides p, for debugging and tests.
func ruleFor(p pair) string {
	for _, rule := range spacingRules {
		if _, ok := rule.apply(p); ok {
			return rule.name
		}
	}
	return "default"
}

func isMajorDeclaration(k parser.NodeKind) bool {
	switch k {
	case parser.KindClassDecl, parser.KindInterfaceDecl, parser.KindFunctionDecl, parser.KindPackageDecl:
		return true
	}
	return false
}

// separatedDeclarations reports whether a blank line is forced between a
// declaration of kind prev and the next of kind next.
func separatedDeclarations(prev, next parser.NodeKind) bool {
	if !prev.IsDeclaration() || !next.IsDeclaration() {
		return false
	}
	return isMajorDeclaration(prev) || isMajorDeclaration(next)
}

// fuses reports whether printing a directly before b would lex differently
// from the two items.
func fuses(a, b *item) bool {
	if a.kind == parser.TokenNumber && b.kind == parser.TokenIdent {
		return true
	}
	joined := a.text + b.text
	tokens := parser.Tokenize([]byte(joined))
	if len(tokens) == 0 {
		return false
	}
	boundary := false
	for _, tok := range tokens {
		if tok.End == len(a.text) {
			boundary = true
			break
		}
		if tok.End > len(a.text) {
			break
		}
	}
	if !boundary {
		return true
	}
	for _, tok := range tokens {
		if tok.Start == len(a.text) {
			return canMerge(a, tok.Kind, tok.Text([]byte(joined)))
		}
	}
	return false
}

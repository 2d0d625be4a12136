package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/asfmt/actionscript/outline"
	"github.com/dhamidi/asfmt/actionscript/parser"
)

// TokenLineEncoder writes one token per line:
//
//	line:column	kind	category	text
//
// The text is quoted so that whitespace and newlines stay visible.
type TokenLineEncoder struct {
	w io.Writer

	// Trivia includes whitespace tokens.
	Trivia bool
}

func NewTokenLineEncoder(w io.Writer) *TokenLineEncoder {
	return &TokenLineEncoder{w: w}
}

func (e *TokenLineEncoder) Encode(tokens []parser.Token, src []byte) error {
	text, err := e.MarshalText(tokens, src)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenLineEncoder) MarshalText(tokens []parser.Token, src []byte) ([]byte, error) {
	var sb strings.Builder
	lines := parser.NewLineIndex(src)
	for _, tok := range tokens {
		if tok.Kind == parser.TokenWhitespace && !e.Trivia {
			continue
		}
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n",
			lines.Position(tok.Start),
			tok.Kind,
			tok.Kind.Category(),
			strconv.Quote(tok.Text(src)),
		)
	}
	return []byte(sb.String()), nil
}

// OutlineLineEncoder writes one declaration per line, tab separated:
//
//	kind	name	type	parameters	visibility	modifiers
//
// Nested declarations are prefixed with their container's name.
type OutlineLineEncoder struct {
	w io.Writer
}

func NewOutlineLineEncoder(w io.Writer) *OutlineLineEncoder {
	return &OutlineLineEncoder{w: w}
}

func (e *OutlineLineEncoder) Encode(symbols []*outline.Symbol) error {
	text, err := e.MarshalText(symbols)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *OutlineLineEncoder) MarshalText(symbols []*outline.Symbol) ([]byte, error) {
	var sb strings.Builder
	for _, s := range symbols {
		e.write(&sb, "", s)
	}
	return []byte(sb.String()), nil
}

func (e *OutlineLineEncoder) write(sb *strings.Builder, prefix string, s *outline.Symbol) {
	name := orDash(s.Name)
	if prefix != "" {
		name = prefix + "." + name
	}
	fmt.Fprintf(sb, "%s\t%s\t%s\t%s\t%s\t%s\n",
		s.Kind,
		name,
		orDash(s.Type),
		e.parametersStr(s),
		s.Visibility(),
		e.modifiersStr(s),
	)
	if s.Kind == outline.KindPackage {
		// package members are addressed by their own name
		name = prefix
	}
	for _, c := range s.Children {
		e.write(sb, name, c)
	}
}

func (e *OutlineLineEncoder) modifiersStr(s *outline.Symbol) string {
	var mods []string
	for _, m := range s.Modifiers {
		switch m {
		case "public", "private", "protected", "internal":
			continue
		}
		mods = append(mods, m)
	}
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func (e *OutlineLineEncoder) parametersStr(s *outline.Symbol) string {
	if len(s.Parameters) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range s.Parameters {
		parts = append(parts, orDash(p.Type))
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

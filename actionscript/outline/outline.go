// Package outline extracts the declarations of an ActionScript file from its
// syntax tree: packages, imports, classes, interfaces, functions and
// variables, nested the way they are nested in the source.
package outline

import (
	"strings"

	"github.com/dhamidi/asfmt/actionscript/parser"
)

type Kind string

const (
	KindPackage   Kind = "package"
	KindImport    Kind = "import"
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindFunction  Kind = "function"
	KindGetter    Kind = "getter"
	KindSetter    Kind = "setter"
	KindVariable  Kind = "var"
	KindConstant  Kind = "const"
)

// Symbol is one declaration. Span covers the whole declaration and NameSpan
// only its name; both are byte offsets into the source.
type Symbol struct {
	Kind       Kind
	Name       string
	Modifiers  []string
	Type       string
	Extends    []string
	Parameters []Parameter
	Span       parser.Span
	NameSpan   parser.Span
	Children   []*Symbol
}

type Parameter struct {
	Name string
	Type string
}

// Visibility returns the access modifier, or "internal" when none is given.
func (s *Symbol) Visibility() string {
	for _, m := range s.Modifiers {
		switch m {
		case "public", "private", "protected", "internal":
			return m
		}
	}
	return "internal"
}

func (s *Symbol) HasModifier(name string) bool {
	for _, m := range s.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

// Walk calls fn for s and every nested symbol in source order.
func (s *Symbol) Walk(fn func(*Symbol)) {
	fn(s)
	for _, c := range s.Children {
		c.Walk(fn)
	}
}

// Of returns the top-level declarations of root.
func Of(root *parser.Node, src []byte) []*Symbol {
	if root == nil {
		return nil
	}
	return statements(root, src)
}

func statements(list *parser.Node, src []byte) []*Symbol {
	var out []*Symbol
	for _, child := range list.Children {
		if child.IsLeaf() {
			continue
		}
		out = append(out, declaration(child, src)...)
	}
	return out
}

func declaration(n *parser.Node, src []byte) []*Symbol {
	switch n.Kind {
	case parser.KindPackageDecl:
		return []*Symbol{container(n, src, KindPackage)}
	case parser.KindImportDecl:
		return []*Symbol{importSymbol(n, src)}
	case parser.KindClassDecl:
		return []*Symbol{container(n, src, KindClass)}
	case parser.KindInterfaceDecl:
		return []*Symbol{container(n, src, KindInterface)}
	case parser.KindFunctionDecl:
		return []*Symbol{function(n, src)}
	case parser.KindVarDecl:
		return variables(n, src)
	}
	return nil
}

// leaves returns the direct token children of n, whitespace and comments
// excluded.
func leaves(n *parser.Node) []parser.Token {
	var out []parser.Token
	for _, c := range n.Children {
		if c.Token != nil && !c.Token.Kind.IsTrivia() {
			out = append(out, *c.Token)
		}
	}
	return out
}

func modifiers(toks []parser.Token, src []byte) ([]string, []parser.Token) {
	var mods []string
	for len(toks) > 0 && toks[0].Kind.IsModifier() {
		mods = append(mods, toks[0].Text(src))
		toks = toks[1:]
	}
	return mods, toks
}

// dotted reads a name such as flash.display.Sprite from the front of toks.
func dotted(toks []parser.Token, src []byte) (string, []parser.Token) {
	var sb strings.Builder
	for len(toks) > 0 {
		switch toks[0].Kind {
		case parser.TokenIdent, parser.TokenDot, parser.TokenStar:
			sb.WriteString(toks[0].Text(src))
			toks = toks[1:]
		default:
			return sb.String(), toks
		}
	}
	return sb.String(), toks
}

// typeName reads a type annotation body, including type arguments.
func typeName(toks []parser.Token, src []byte) (string, []parser.Token) {
	var sb strings.Builder
	for len(toks) > 0 {
		switch toks[0].Kind {
		case parser.TokenIdent, parser.TokenDot, parser.TokenStar, parser.TokenLT, parser.TokenGT:
			sb.WriteString(toks[0].Text(src))
			toks = toks[1:]
		default:
			return sb.String(), toks
		}
	}
	return sb.String(), toks
}

func container(n *parser.Node, src []byte, kind Kind) *Symbol {
	sym := &Symbol{Kind: kind, Span: n.Span}
	toks := leaves(n)
	sym.Modifiers, toks = modifiers(toks, src)
	if len(toks) > 0 {
		toks = toks[1:]
	}
	if kind == KindPackage {
		if len(toks) > 0 {
			start := toks[0].Start
			sym.Name, toks = dotted(toks, src)
			sym.NameSpan = parser.Span{Start: start, End: start + len(sym.Name)}
		}
	} else if len(toks) > 0 && toks[0].Kind == parser.TokenIdent {
		sym.Name = toks[0].Text(src)
		sym.NameSpan = parser.Span{Start: toks[0].Start, End: toks[0].End}
		toks = toks[1:]
	}
	for len(toks) > 0 {
		switch toks[0].Kind {
		case parser.TokenExtends, parser.TokenImplements, parser.TokenComma:
			var name string
			name, toks = dotted(toks[1:], src)
			if name != "" {
				sym.Extends = append(sym.Extends, name)
			}
		default:
			toks = toks[1:]
		}
	}
	if sym.NameSpan == (parser.Span{}) {
		sym.NameSpan = parser.Span{Start: n.Span.Start, End: n.Span.Start}
	}
	if block := n.FirstChildOfKind(parser.KindBlock); block != nil {
		sym.Children = statements(block, src)
	}
	return sym
}

func importSymbol(n *parser.Node, src []byte) *Symbol {
	sym := &Symbol{Kind: KindImport, Span: n.Span}
	toks := leaves(n)
	if len(toks) > 1 {
		start := toks[1].Start
		sym.Name, _ = dotted(toks[1:], src)
		sym.NameSpan = parser.Span{Start: start, End: start + len(sym.Name)}
	}
	return sym
}

func function(n *parser.Node, src []byte) *Symbol {
	sym := &Symbol{Kind: KindFunction, Span: n.Span}
	toks := leaves(n)
	sym.Modifiers, toks = modifiers(toks, src)
	if len(toks) > 0 && toks[0].Kind == parser.TokenFunction {
		toks = toks[1:]
	}
	var names []parser.Token
	for len(toks) > 0 && toks[0].Kind == parser.TokenIdent && len(names) < 2 {
		names = append(names, toks[0])
		toks = toks[1:]
	}
	if len(names) == 2 {
		switch names[0].Text(src) {
		case "get":
			sym.Kind = KindGetter
		case "set":
			sym.Kind = KindSetter
		}
		names = names[1:]
	}
	if len(names) == 1 {
		sym.Name = names[0].Text(src)
		sym.NameSpan = parser.Span{Start: names[0].Start, End: names[0].End}
	} else {
		sym.NameSpan = parser.Span{Start: n.Span.Start, End: n.Span.Start}
	}

	if len(toks) > 0 && toks[0].Kind == parser.TokenLParen {
		toks = toks[1:]
		for len(toks) > 0 && toks[0].Kind != parser.TokenRParen {
			if toks[0].Kind != parser.TokenIdent {
				toks = toks[1:]
				continue
			}
			param := Parameter{Name: toks[0].Text(src)}
			toks = toks[1:]
			if len(toks) > 0 && toks[0].Kind == parser.TokenColon {
				param.Type, toks = typeName(toks[1:], src)
			}
			sym.Parameters = append(sym.Parameters, param)
		}
		if len(toks) > 0 {
			toks = toks[1:]
		}
	}
	if len(toks) > 0 && toks[0].Kind == parser.TokenColon {
		sym.Type, _ = typeName(toks[1:], src)
	}
	return sym
}

func variables(n *parser.Node, src []byte) []*Symbol {
	toks := leaves(n)
	mods, toks := modifiers(toks, src)
	kind := KindVariable
	if len(toks) > 0 {
		if toks[0].Kind == parser.TokenConst {
			kind = KindConstant
		}
		toks = toks[1:]
	}
	var out []*Symbol
	for len(toks) > 0 {
		if toks[0].Kind != parser.TokenIdent {
			toks = toks[1:]
			continue
		}
		sym := &Symbol{
			Kind:      kind,
			Name:      toks[0].Text(src),
			Modifiers: mods,
			Span:      n.Span,
			NameSpan:  parser.Span{Start: toks[0].Start, End: toks[0].End},
		}
		toks = toks[1:]
		if len(toks) > 0 && toks[0].Kind == parser.TokenColon {
			sym.Type, toks = typeName(toks[1:], src)
		}
		out = append(out, sym)
	}
	return out
}

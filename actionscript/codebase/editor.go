package codebase

import (
	"strings"

	"github.com/dhamidi/asfmt/actionscript/parser"
)

// SemanticTokenTypes is the legend for EncodeSemanticTokens, indexed by the
// token type numbers it emits.
var SemanticTokenTypes = []string{"keyword", "variable", "string", "number", "comment", "operator"}

func semanticType(c parser.Category) (uint32, bool) {
	switch c {
	case parser.CategoryKeyword:
		return 0, true
	case parser.CategoryIdentifier:
		return 1, true
	case parser.CategoryString:
		return 2, true
	case parser.CategoryNumber:
		return 3, true
	case parser.CategoryComment:
		return 4, true
	case parser.CategoryOperator:
		return 5, true
	}
	return 0, false
}

// EncodeSemanticTokens produces the relative five-integer encoding of the
// LSP semantic tokens response. Tokens spanning several lines are split at
// line breaks; columns and lengths are in UTF-16 units.
func EncodeSemanticTokens(f *FileInfo) []uint32 {
	var data []uint32
	prevLine, prevCol := 0, 0
	emit := func(start, end int, typ uint32) {
		if end <= start {
			return
		}
		pos := f.Lines.Position(start)
		line := pos.Line - 1
		col := f.Lines.UTF16Column(start)
		length := f.Lines.UTF16Column(end) - col
		if length <= 0 {
			return
		}
		deltaCol := col
		if line == prevLine {
			deltaCol = col - prevCol
		}
		data = append(data, uint32(line-prevLine), uint32(deltaCol), uint32(length), typ, 0)
		prevLine, prevCol = line, col
	}

	for _, tok := range f.Tokens {
		typ, ok := semanticType(tok.Kind.Category())
		if !ok {
			continue
		}
		start := tok.Start
		for start < tok.End {
			end := start + strings.IndexByte(string(f.Content[start:tok.End]), '\n')
			if end < start {
				end = tok.End
			}
			emit(start, end, typ)
			start = end + 1
		}
	}
	return data
}

// Fold is a foldable line range, 0-based and inclusive.
type Fold struct {
	StartLine int
	EndLine   int
	Comment   bool
}

// FoldingRanges returns a fold for every block and block comment spanning
// more than one line. A block's fold ends on the line before its closing
// brace so the brace stays visible.
func FoldingRanges(f *FileInfo) []Fold {
	var folds []Fold
	line := func(offset int) int { return f.Lines.Position(offset).Line - 1 }

	f.Tree.Walk(func(n *parser.Node) bool {
		switch {
		case n.Kind == parser.KindBlock:
			open := n.FirstToken(parser.TokenLBrace)
			closing := n.FirstToken(parser.TokenRBrace)
			if open == nil || closing == nil {
				return true
			}
			start, end := line(open.Start), line(closing.Start)-1
			if end > start {
				folds = append(folds, Fold{StartLine: start, EndLine: end})
			}
		case n.Token != nil && n.Token.Kind == parser.TokenBlockComment:
			start, end := line(n.Token.Start), line(n.Token.End-1)
			if end > start {
				folds = append(folds, Fold{StartLine: start, EndLine: end, Comment: true})
			}
		}
		return true
	})
	return folds
}

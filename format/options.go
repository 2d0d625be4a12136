package format

import "strings"

// Options control the layout produced by the printer. The zero value is not
// useful; start from DefaultOptions.
type Options struct {
	// IndentWidth is the number of columns per nesting level.
	IndentWidth int
	// UseTabs indents with one tab per level instead of spaces.
	UseTabs bool
	// MaxBlankLines caps how many blank lines are kept from the source.
	MaxBlankLines int
	// BlankLineBetweenDeclarations separates adjacent declarations with a
	// blank line when either of them is a class, interface, function or
	// package.
	BlankLineBetweenDeclarations bool
	// InsertFinalNewline ends non-empty output with a newline even when the
	// source did not.
	InsertFinalNewline bool
}

const maxBlankLinesLimit = 2

func DefaultOptions() Options {
	return Options{
		IndentWidth:                  4,
		MaxBlankLines:                1,
		BlankLineBetweenDeclarations: true,
	}
}

// normalized clamps out-of-range values so the printer never produces
// negative repeats.
func (o Options) normalized() Options {
	if o.IndentWidth < 1 {
		o.IndentWidth = 1
	}
	if o.MaxBlankLines < 0 {
		o.MaxBlankLines = 0
	}
	if o.MaxBlankLines > maxBlankLinesLimit {
		o.MaxBlankLines = maxBlankLinesLimit
	}
	return o
}

func (o Options) indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	if o.UseTabs {
		return strings.Repeat("\t", depth)
	}
	return strings.Repeat(" ", depth*o.IndentWidth)
}

// Package parser provides an error-tolerant lexer and statement-level parser
// for ActionScript source code.
//
// # Overview
//
// The lexer turns bytes into tokens that cover the input exactly, whitespace
// and comments included. The parser consumes those tokens and builds a
// concrete syntax tree (CST) whose leaves are the tokens themselves, so the
// original text can always be reconstructed from the tree.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// # Lexing
//
// Tokens are byte ranges into the source:
//
//	tokens := parser.Tokenize(src)
//	for _, tok := range tokens {
//	    fmt.Println(tok.Kind, tok.Text(src))
//	}
//
// The lexer never fails. Unknown input becomes a TokenBadChar covering one
// character; unterminated strings and block comments run to the end of the
// input. Diagnose reports these cases after the fact.
//
// A Lexer is restartable: Offset saves a position and Reset returns to it.
// The parser uses this for lookahead past declaration modifiers.
//
// # Parsing
//
//	root := parser.Parse(src)
//	fmt.Print(root.String(src))
//
// Only statements and declarations are parsed. Expressions are opaque
// bracket-balanced spans (KindExpr). When no statement matches at the
// current token, the token is attached to the enclosing node and parsing
// continues with the next one.
//
// # Depth
//
// Each node and leaf records its block nesting level when it is built. The
// braces of a block sit at the level of the statement owning the block and
// its contents one level deeper. Case bodies and control statement bodies
// written without braces are also one level deeper than their owner. The
// formatter derives indentation from this value alone.
package parser

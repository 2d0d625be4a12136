package parser

import (
	"strconv"
	"strings"
)

type NodeKind int

const (
	// KindToken is a leaf wrapping exactly one token, trivia included.
	KindToken NodeKind = iota

	KindFile
	KindPackageDecl
	KindImportDecl
	KindClassDecl
	KindInterfaceDecl
	KindFunctionDecl
	KindVarDecl

	// Statements
	KindBlock
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindWhileStmt
	KindDoWhileStmt
	KindSwitchStmt
	KindCaseClause
	KindTryStmt
	KindReturnStmt
	KindThrowStmt
	KindBreakStmt
	KindContinueStmt

	// KindExpr is an opaque, bracket-balanced run of tokens.
	KindExpr
)

var nodeKindNames = map[NodeKind]string{
	KindToken:         "Token",
	KindFile:          "File",
	KindPackageDecl:   "PackageDecl",
	KindImportDecl:    "ImportDecl",
	KindClassDecl:     "ClassDecl",
	KindInterfaceDecl: "InterfaceDecl",
	KindFunctionDecl:  "FunctionDecl",
	KindVarDecl:       "VarDecl",
	KindBlock:         "Block",
	KindExprStmt:      "ExprStmt",
	KindIfStmt:        "IfStmt",
	KindForStmt:       "ForStmt",
	KindWhileStmt:     "WhileStmt",
	KindDoWhileStmt:   "DoWhileStmt",
	KindSwitchStmt:    "SwitchStmt",
	KindCaseClause:    "CaseClause",
	KindTryStmt:       "TryStmt",
	KindReturnStmt:    "ReturnStmt",
	KindThrowStmt:     "ThrowStmt",
	KindBreakStmt:     "BreakStmt",
	KindContinueStmt:  "ContinueStmt",
	KindExpr:          "Expr",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsDeclaration reports whether the kind introduces a named declaration.
func (k NodeKind) IsDeclaration() bool {
	switch k {
	case KindPackageDecl, KindImportDecl, KindClassDecl, KindInterfaceDecl,
		KindFunctionDecl, KindVarDecl:
		return true
	}
	return false
}

// IsStatementList reports whether children of this kind are laid out one
// statement per line.
func (k NodeKind) IsStatementList() bool {
	return k == KindFile || k == KindBlock || k == KindCaseClause
}

type Span struct {
	Start int
	End   int
}

// Node is a CST node. Leaves have Kind == KindToken and a non-nil Token;
// interior nodes own their children exclusively and in source order.
//
// Depth is the block nesting level of the node, fixed when the node is
// built: top-level declarations are at 0, the contents of a block one deeper
// than the statement owning the block.
type Node struct {
	Kind     NodeKind
	Span     Span
	Depth    int
	Children []*Node
	Token    *Token
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsLeaf() bool {
	return n.Kind == KindToken
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// FirstToken returns the first leaf of kind, looking only at direct children.
func (n *Node) FirstToken(kind TokenKind) *Token {
	for _, child := range n.Children {
		if child.Token != nil && child.Token.Kind == kind {
			return child.Token
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Tokens returns every leaf token under n in source order.
func (n *Node) Tokens() []Token {
	var tokens []Token
	n.Walk(func(c *Node) bool {
		if c.Token != nil {
			tokens = append(tokens, *c.Token)
		}
		return true
	})
	return tokens
}

func (n *Node) Text(src []byte) string {
	if n.Span.Start < 0 || n.Span.End > len(src) || n.Span.Start > n.Span.End {
		return ""
	}
	return string(src[n.Span.Start:n.Span.End])
}

// String renders the tree one node per line. Whitespace leaves are omitted.
func (n *Node) String(src []byte) string {
	var sb strings.Builder
	n.writeIndent(&sb, src, 0)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, src []byte, indent int) {
	if n.Token != nil && n.Token.Kind == TokenWhitespace {
		return
	}
	sb.WriteString(strings.Repeat("  ", indent))
	if n.Token != nil {
		sb.WriteString(n.Token.Kind.String())
		sb.WriteString(" ")
		sb.WriteString(strconv.Quote(n.Token.Text(src)))
		sb.WriteString("\n")
		return
	}
	sb.WriteString(n.Kind.String())
	sb.WriteString(" depth=")
	sb.WriteString(strconv.Itoa(n.Depth))
	sb.WriteString(" [")
	sb.WriteString(strconv.Itoa(n.Span.Start))
	sb.WriteString("-")
	sb.WriteString(strconv.Itoa(n.Span.End))
	sb.WriteString("]\n")
	for _, child := range n.Children {
		child.writeIndent(sb, src, indent+1)
	}
}

package parser

import "sort"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenBadChar
	TokenWhitespace
	TokenLineComment
	TokenBlockComment

	// Literals
	TokenIdent
	TokenNumber
	TokenString

	// Keywords
	TokenClass
	TokenFunction
	TokenVar
	TokenConst
	TokenIf
	TokenElse
	TokenFor
	TokenWhile
	TokenDo
	TokenSwitch
	TokenCase
	TokenDefault
	TokenReturn
	TokenBreak
	TokenContinue
	TokenPublic
	TokenPrivate
	TokenProtected
	TokenStatic
	TokenFinal
	TokenOverride
	TokenImport
	TokenPackage
	TokenExtends
	TokenImplements
	TokenInterface
	TokenNew
	TokenTrue
	TokenFalse
	TokenNull
	TokenUndefined
	TokenThis
	TokenSuper
	TokenTry
	TokenCatch
	TokenFinally
	TokenThrow

	// Operators and punctuation
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenSemicolon
	TokenComma
	TokenDot
	TokenColon
	TokenAssign
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLT
	TokenGT
	TokenLE
	TokenGE
	TokenEQ
	TokenNE
	TokenAnd
	TokenOr
	TokenNot
	TokenQuestion
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenBadChar:      "BadCharacter",
	TokenWhitespace:   "Whitespace",
	TokenLineComment:  "LineComment",
	TokenBlockComment: "BlockComment",
	TokenIdent:        "Identifier",
	TokenNumber:       "Number",
	TokenString:       "String",
	TokenClass:        "class",
	TokenFunction:     "function",
	TokenVar:          "var",
	TokenConst:        "const",
	TokenIf:           "if",
	TokenElse:         "else",
	TokenFor:          "for",
	TokenWhile:        "while",
	TokenDo:           "do",
	TokenSwitch:       "switch",
	TokenCase:         "case",
	TokenDefault:      "default",
	TokenReturn:       "return",
	TokenBreak:        "break",
	TokenContinue:     "continue",
	TokenPublic:       "public",
	TokenPrivate:      "private",
	TokenProtected:    "protected",
	TokenStatic:       "static",
	TokenFinal:        "final",
	TokenOverride:     "override",
	TokenImport:       "import",
	TokenPackage:      "package",
	TokenExtends:      "extends",
	TokenImplements:   "implements",
	TokenInterface:    "interface",
	TokenNew:          "new",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenNull:         "null",
	TokenUndefined:    "undefined",
	TokenThis:         "this",
	TokenSuper:        "super",
	TokenTry:          "try",
	TokenCatch:        "catch",
	TokenFinally:      "finally",
	TokenThrow:        "throw",
	TokenLBrace:       "{",
	TokenRBrace:       "}",
	TokenLBracket:     "[",
	TokenRBracket:     "]",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenSemicolon:    ";",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenColon:        ":",
	TokenAssign:       "=",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenLT:           "<",
	TokenGT:           ">",
	TokenLE:           "<=",
	TokenGE:           ">=",
	TokenEQ:           "==",
	TokenNE:           "!=",
	TokenAnd:          "&&",
	TokenOr:           "||",
	TokenNot:          "!",
	TokenQuestion:     "?",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTrivia reports whether the kind carries layout only: whitespace and
// comments. Trivia never drives the grammar but is kept in the tree.
func (k TokenKind) IsTrivia() bool {
	switch k {
	case TokenWhitespace, TokenLineComment, TokenBlockComment:
		return true
	}
	return false
}

func (k TokenKind) IsComment() bool {
	return k == TokenLineComment || k == TokenBlockComment
}

func (k TokenKind) IsKeyword() bool {
	return k >= TokenClass && k <= TokenThrow
}

// IsModifier reports whether the kind may prefix a declaration.
func (k TokenKind) IsModifier() bool {
	switch k {
	case TokenPublic, TokenPrivate, TokenProtected, TokenStatic, TokenFinal, TokenOverride:
		return true
	}
	return false
}

// IsOperator reports whether the kind is an arithmetic, comparison, logical,
// assignment or ternary operator.
func (k TokenKind) IsOperator() bool {
	switch k {
	case TokenAssign, TokenPlus, TokenMinus, TokenStar, TokenSlash,
		TokenLT, TokenGT, TokenLE, TokenGE, TokenEQ, TokenNE,
		TokenAnd, TokenOr, TokenNot, TokenQuestion:
		return true
	}
	return false
}

// Token is a half-open byte range [Start, End) of the source it was scanned
// from. The text is not copied; use Text to slice it out.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
}

func (t Token) Text(src []byte) string {
	if t.Start < 0 || t.End > len(src) || t.Start > t.End {
		return ""
	}
	return string(src[t.Start:t.End])
}

func (t Token) Len() int {
	return t.End - t.Start
}

var keywords = map[string]TokenKind{
	"class":      TokenClass,
	"function":   TokenFunction,
	"var":        TokenVar,
	"const":      TokenConst,
	"if":         TokenIf,
	"else":       TokenElse,
	"for":        TokenFor,
	"while":      TokenWhile,
	"do":         TokenDo,
	"switch":     TokenSwitch,
	"case":       TokenCase,
	"default":    TokenDefault,
	"return":     TokenReturn,
	"break":      TokenBreak,
	"continue":   TokenContinue,
	"public":     TokenPublic,
	"private":    TokenPrivate,
	"protected":  TokenProtected,
	"static":     TokenStatic,
	"final":      TokenFinal,
	"override":   TokenOverride,
	"import":     TokenImport,
	"package":    TokenPackage,
	"extends":    TokenExtends,
	"implements": TokenImplements,
	"interface":  TokenInterface,
	"new":        TokenNew,
	"true":       TokenTrue,
	"false":      TokenFalse,
	"null":       TokenNull,
	"undefined":  TokenUndefined,
	"this":       TokenThis,
	"super":      TokenSuper,
	"try":        TokenTry,
	"catch":      TokenCatch,
	"finally":    TokenFinally,
	"throw":      TokenThrow,
}

// Keywords returns the reserved words in lexical order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

package parser

// Category is the display class a highlighter assigns to a token. It carries
// no grammar meaning.
type Category int

const (
	CategoryDefault Category = iota
	CategoryKeyword
	CategoryIdentifier
	CategoryString
	CategoryNumber
	CategoryComment
	CategoryOperator
	CategoryPunctuation
	CategoryBadChar
)

var categoryNames = [...]string{
	CategoryDefault:     "default",
	CategoryKeyword:     "keyword",
	CategoryIdentifier:  "identifier",
	CategoryString:      "string",
	CategoryNumber:      "number",
	CategoryComment:     "comment",
	CategoryOperator:    "operator",
	CategoryPunctuation: "punctuation",
	CategoryBadChar:     "bad-character",
}

func (c Category) String() string {
	if int(c) >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

func (k TokenKind) Category() Category {
	switch {
	case k.IsKeyword():
		return CategoryKeyword
	case k.IsComment():
		return CategoryComment
	case k.IsOperator():
		return CategoryOperator
	}
	switch k {
	case TokenIdent:
		return CategoryIdentifier
	case TokenString:
		return CategoryString
	case TokenNumber:
		return CategoryNumber
	case TokenBadChar:
		return CategoryBadChar
	case TokenLBrace, TokenRBrace, TokenLBracket, TokenRBracket, TokenLParen, TokenRParen,
		TokenSemicolon, TokenComma, TokenDot, TokenColon:
		return CategoryPunctuation
	}
	return CategoryDefault
}

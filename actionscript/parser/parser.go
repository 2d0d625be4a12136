package parser

// Parser is a statement-level recursive descent parser. Every parse method
// either consumes a complete construct or reports no match without
// consuming anything; the statement loops skip one token on no match, so
// parsing always terminates and the tree always covers the whole input.
type Parser struct {
	b *builder
}

func NewParser(src TokenSource) *Parser {
	return &Parser{b: newBuilder(src)}
}

// Parse lexes and parses src into a File node.
func Parse(src []byte) *Node {
	return NewParser(NewLexer(src)).ParseFile()
}

// ParseTokens parses tokens previously produced by Tokenize.
func ParseTokens(tokens []Token) *Node {
	return NewParser(&sliceSource{tokens: tokens}).ParseFile()
}

func (p *Parser) ParseFile() *Node {
	b := p.b
	b.open(KindFile)
	for !b.eof() {
		if !p.parseStatement() {
			b.advance()
		}
	}
	b.flush()
	file := b.close()
	file.Span.Start = 0
	return file
}

func (p *Parser) parseStatement() bool {
	switch p.b.peek() {
	case TokenPackage:
		p.parsePackage()
	case TokenImport:
		p.parseImport()
	case TokenClass:
		p.parseClass()
	case TokenInterface:
		p.parseInterface()
	case TokenFunction:
		p.parseFunction()
	case TokenVar, TokenConst:
		p.parseVariable()
	case TokenIf:
		p.parseIf()
	case TokenFor:
		p.parseFor()
	case TokenWhile:
		p.parseWhile()
	case TokenDo:
		p.parseDoWhile()
	case TokenSwitch:
		p.parseSwitch()
	case TokenTry:
		p.parseTry()
	case TokenReturn:
		p.parseJump(KindReturnStmt, true)
	case TokenThrow:
		p.parseJump(KindThrowStmt, true)
	case TokenBreak:
		p.parseJump(KindBreakStmt, false)
	case TokenContinue:
		p.parseJump(KindContinueStmt, false)
	case TokenLBrace:
		p.parseBlock()
	default:
		if p.b.peek().IsModifier() {
			return p.parseModified()
		}
		if startsExpression(p.b.peek()) {
			p.parseExprStmt()
			return true
		}
		return false
	}
	return true
}

// parseModified dispatches on the keyword following a run of modifiers.
func (p *Parser) parseModified() bool {
	switch p.b.peekPast(TokenKind.IsModifier) {
	case TokenClass:
		p.parseClass()
	case TokenInterface:
		p.parseInterface()
	case TokenFunction:
		p.parseFunction()
	case TokenVar, TokenConst:
		p.parseVariable()
	default:
		return false
	}
	return true
}

func (p *Parser) parseModifiers() {
	for p.b.peek().IsModifier() {
		p.b.advance()
	}
}

func (p *Parser) parseQualifiedName() {
	for p.b.accept(TokenIdent) {
		if !p.b.accept(TokenDot) {
			return
		}
	}
}

func (p *Parser) parsePackage() {
	b := p.b
	b.open(KindPackageDecl)
	b.advance()
	p.parseQualifiedName()
	if b.at(TokenLBrace) {
		p.parseBlock()
	}
	b.accept(TokenSemicolon)
	b.close()
}

func (p *Parser) parseImport() {
	b := p.b
	b.open(KindImportDecl)
	b.advance()
	p.parseQualifiedName()
	b.accept(TokenStar)
	b.accept(TokenSemicolon)
	b.close()
}

func (p *Parser) parseClass() {
	b := p.b
	b.open(KindClassDecl)
	p.parseModifiers()
	b.accept(TokenClass)
	b.accept(TokenIdent)
	if b.accept(TokenExtends) {
		p.parseQualifiedName()
	}
	if b.accept(TokenImplements) {
		for b.at(TokenIdent) {
			p.parseQualifiedName()
			if !b.accept(TokenComma) {
				break
			}
		}
	}
	if b.at(TokenLBrace) {
		p.parseBlock()
	}
	b.close()
}

func (p *Parser) parseInterface() {
	b := p.b
	b.open(KindInterfaceDecl)
	p.parseModifiers()
	b.accept(TokenInterface)
	b.accept(TokenIdent)
	if b.accept(TokenExtends) {
		for b.at(TokenIdent) {
			p.parseQualifiedName()
			if !b.accept(TokenComma) {
				break
			}
		}
	}
	if b.at(TokenLBrace) {
		p.parseBlock()
	}
	b.close()
}

func (p *Parser) parseFunction() {
	b := p.b
	b.open(KindFunctionDecl)
	p.parseModifiers()
	b.accept(TokenFunction)
	// "get" and "set" accessors put a second identifier before the name.
	if b.accept(TokenIdent) {
		b.accept(TokenIdent)
	}
	if b.at(TokenLParen) {
		p.parseParameters()
	}
	p.parseTypeAnnotation()
	if b.at(TokenLBrace) {
		p.parseBlock()
	} else {
		b.accept(TokenSemicolon)
	}
	b.close()
}

func (p *Parser) parseParameters() {
	b := p.b
	b.advance()
	inParams := func() bool {
		return !b.eof() && !b.at(TokenRParen) && !b.at(TokenLBrace) && !b.at(TokenRBrace)
	}
	for inParams() {
		if b.accept(TokenIdent) {
			p.parseTypeAnnotation()
			if b.accept(TokenAssign) {
				p.parseExpr(false)
			}
		}
		if !b.accept(TokenComma) && inParams() {
			b.advance()
		}
	}
	b.accept(TokenRParen)
}

// parseTypeAnnotation consumes ": Type".
func (p *Parser) parseTypeAnnotation() {
	if p.b.accept(TokenColon) {
		p.parseType()
	}
}

// parseType consumes "*", a dotted name, or a dotted name with a type
// argument such as Vector.<String>.
func (p *Parser) parseType() {
	b := p.b
	if b.accept(TokenStar) {
		return
	}
	for b.accept(TokenIdent) {
		if !b.accept(TokenDot) {
			return
		}
		if b.accept(TokenLT) {
			p.parseType()
			b.accept(TokenGT)
			return
		}
	}
}

func (p *Parser) parseVariable() {
	p.parseVariableDecl(true)
}

// parseVariableDecl consumes var or const declarators. The init slot of a
// for header leaves the ";" to the loop.
func (p *Parser) parseVariableDecl(terminated bool) {
	b := p.b
	b.open(KindVarDecl)
	p.parseModifiers()
	b.advance()
	for {
		b.accept(TokenIdent)
		p.parseTypeAnnotation()
		if b.accept(TokenAssign) {
			p.parseExpr(false)
		}
		if !b.accept(TokenComma) {
			break
		}
	}
	if terminated {
		b.accept(TokenSemicolon)
	}
	b.close()
}

func (p *Parser) parseIf() {
	b := p.b
	b.open(KindIfStmt)
	b.advance()
	p.parseCondition()
	p.parseBody()
	if b.accept(TokenElse) {
		if b.at(TokenIf) {
			p.parseIf()
		} else {
			p.parseBody()
		}
	}
	b.close()
}

func (p *Parser) parseFor() {
	b := p.b
	b.open(KindForStmt)
	b.advance()
	// for each (...)
	b.accept(TokenIdent)
	if b.accept(TokenLParen) {
		if b.at(TokenVar) || b.at(TokenConst) {
			p.parseVariableDecl(false)
		}
		p.parseExprList()
		b.accept(TokenSemicolon)
		p.parseExprList()
		b.accept(TokenSemicolon)
		p.parseExprList()
		b.accept(TokenRParen)
	}
	p.parseBody()
	b.close()
}

func (p *Parser) parseWhile() {
	b := p.b
	b.open(KindWhileStmt)
	b.advance()
	p.parseCondition()
	p.parseBody()
	b.close()
}

func (p *Parser) parseDoWhile() {
	b := p.b
	b.open(KindDoWhileStmt)
	b.advance()
	p.parseBody()
	if b.accept(TokenWhile) {
		p.parseCondition()
	}
	b.accept(TokenSemicolon)
	b.close()
}

// parseSwitch builds the body as a Block of CaseClause nodes. Statements
// before the first label are kept in the block.
func (p *Parser) parseSwitch() {
	b := p.b
	b.open(KindSwitchStmt)
	b.advance()
	p.parseCondition()
	if b.at(TokenLBrace) {
		b.open(KindBlock)
		b.advance()
		b.depth++
		for !b.eof() && !b.at(TokenRBrace) {
			if b.at(TokenCase) || b.at(TokenDefault) {
				p.parseCase()
				continue
			}
			if !p.parseStatement() {
				b.advance()
			}
		}
		b.flush()
		b.depth--
		b.accept(TokenRBrace)
		b.close()
	}
	b.close()
}

func (p *Parser) parseCase() {
	b := p.b
	b.open(KindCaseClause)
	if b.accept(TokenCase) {
		p.parseExpr(true)
	} else {
		b.advance()
	}
	b.accept(TokenColon)
	b.depth++
	for !b.eof() && !b.at(TokenCase) && !b.at(TokenDefault) && !b.at(TokenRBrace) {
		if !p.parseStatement() {
			b.advance()
		}
	}
	b.flush()
	b.depth--
	b.close()
}

func (p *Parser) parseTry() {
	b := p.b
	b.open(KindTryStmt)
	b.advance()
	if b.at(TokenLBrace) {
		p.parseBlock()
	}
	for b.accept(TokenCatch) {
		if b.accept(TokenLParen) {
			if b.accept(TokenIdent) {
				p.parseTypeAnnotation()
			}
			b.accept(TokenRParen)
		}
		if b.at(TokenLBrace) {
			p.parseBlock()
		}
	}
	if b.accept(TokenFinally) && b.at(TokenLBrace) {
		p.parseBlock()
	}
	b.close()
}

// parseJump handles return, throw, break and continue. break and continue
// take an optional label instead of an expression.
func (p *Parser) parseJump(kind NodeKind, withExpr bool) {
	b := p.b
	b.open(kind)
	b.advance()
	if withExpr {
		p.parseExpr(false)
	} else {
		b.accept(TokenIdent)
	}
	b.accept(TokenSemicolon)
	b.close()
}

func (p *Parser) parseExprStmt() {
	b := p.b
	b.open(KindExprStmt)
	p.parseExprList()
	b.accept(TokenSemicolon)
	b.close()
}

func (p *Parser) parseBlock() {
	b := p.b
	b.open(KindBlock)
	b.advance()
	b.depth++
	for !b.eof() && !b.at(TokenRBrace) {
		if !p.parseStatement() {
			b.advance()
		}
	}
	b.flush()
	b.depth--
	b.accept(TokenRBrace)
	b.close()
}

// parseBody parses the body of a control statement. A body without braces
// is one level deeper than its owner.
func (p *Parser) parseBody() {
	b := p.b
	if b.at(TokenLBrace) {
		p.parseBlock()
		return
	}
	b.depth++
	p.parseStatement()
	b.depth--
}

func (p *Parser) parseCondition() {
	b := p.b
	if !b.accept(TokenLParen) {
		return
	}
	p.parseExpr(false)
	b.accept(TokenRParen)
}

// parseExprList consumes comma separated expression spans.
func (p *Parser) parseExprList() {
	p.parseExpr(false)
	for p.b.accept(TokenComma) {
		p.parseExpr(false)
	}
}

// parseExpr consumes an opaque expression span. The span is bracket
// balanced and ends at an unmatched closer, or at a top-level ";", "," or
// statement keyword. With stopAtColon a top-level ":" that does not close a
// "?" ends it too. It reports whether anything was consumed.
func (p *Parser) parseExpr(stopAtColon bool) bool {
	b := p.b
	s := exprScan{stopAtColon: stopAtColon, last: TokenEOF}
	if s.ends(b.peek()) {
		return false
	}
	b.open(KindExpr)
	for !s.ends(b.peek()) {
		s.consume(b.peek())
		b.advance()
	}
	b.close()
	return true
}

type exprScan struct {
	stopAtColon bool
	nesting     int
	ternary     int
	last        TokenKind
}

func (s *exprScan) ends(k TokenKind) bool {
	if k == TokenEOF {
		return true
	}
	if s.nesting > 0 {
		return false
	}
	switch k {
	case TokenRParen, TokenRBracket, TokenRBrace, TokenSemicolon, TokenComma:
		return true
	case TokenColon:
		return s.stopAtColon && s.ternary == 0
	case TokenFunction:
		// A function expression follows an operator; after an operand it
		// starts a new declaration.
		return IsOperand(s.last)
	}
	return s.last != TokenEOF && endsExpression(k)
}

func (s *exprScan) consume(k TokenKind) {
	switch k {
	case TokenLParen, TokenLBracket, TokenLBrace:
		s.nesting++
	case TokenRParen, TokenRBracket, TokenRBrace:
		s.nesting--
	case TokenQuestion:
		if s.nesting == 0 {
			s.ternary++
		}
	case TokenColon:
		if s.nesting == 0 && s.ternary > 0 {
			s.ternary--
		}
	}
	s.last = k
}

// endsExpression reports whether k can only begin a statement or clause, so
// a non-empty expression span stops in front of it.
func endsExpression(k TokenKind) bool {
	if k.IsModifier() {
		return true
	}
	switch k {
	case TokenVar, TokenConst, TokenClass, TokenInterface, TokenIf, TokenElse,
		TokenFor, TokenWhile, TokenDo, TokenSwitch, TokenCase, TokenDefault,
		TokenTry, TokenCatch, TokenFinally, TokenReturn, TokenThrow,
		TokenBreak, TokenContinue, TokenImport, TokenPackage:
		return true
	}
	return false
}

func startsExpression(k TokenKind) bool {
	switch k {
	case TokenIdent, TokenNumber, TokenString, TokenThis, TokenSuper, TokenNew,
		TokenTrue, TokenFalse, TokenNull, TokenUndefined,
		TokenLParen, TokenLBracket, TokenNot, TokenMinus, TokenPlus:
		return true
	}
	return false
}

// IsOperand reports whether a token of kind k can end an operand, which
// makes a following "+" or "-" binary.
func IsOperand(k TokenKind) bool {
	switch k {
	case TokenIdent, TokenNumber, TokenString, TokenRParen, TokenRBracket,
		TokenThis, TokenSuper, TokenTrue, TokenFalse, TokenNull, TokenUndefined:
		return true
	}
	return false
}

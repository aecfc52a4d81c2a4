package clite

import "fmt"

type parser struct {
	tokens  []Token
	current int
}

// Parse builds a Program from a token stream. Parsing stops at the first
// structural mismatch; no partial program is returned.
func Parse(tokens []Token) (*Program, error) {
	p := &parser{tokens: tokens}
	program := &Program{}
	for !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

// ParseSource tokenizes and parses source. Syntax errors carry a code frame
// and the returned Program keeps the source for runtime diagnostics.
func ParseSource(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, withCodeFrame(err, source)
	}
	program, err := Parse(tokens)
	if err != nil {
		return nil, withCodeFrame(err, source)
	}
	program.Source = source
	return program, nil
}

func (p *parser) parseStatement() (Statement, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == TokenKeyword {
		switch tok.Lexeme {
		case "let":
			return p.parseVarDecl()
		case "fn":
			return p.parseFuncDecl()
		case "if":
			return p.parseIfStatement()
		case "while":
			return p.parseWhileStatement()
		case "for":
			return p.parseForStatement()
		case "return":
			return p.parseReturnStatement()
		case "break":
			p.advance()
			if _, err := p.expect(TokenPunctuation, ";"); err != nil {
				return nil, err
			}
			return &BreakStmt{position: tok.Pos}, nil
		case "continue":
			p.advance()
			if _, err := p.expect(TokenPunctuation, ";"); err != nil {
				return nil, err
			}
			return &ContinueStmt{position: tok.Pos}, nil
		}
	}
	if tok.Is(TokenPunctuation, "{") {
		return p.parseBlock()
	}
	return p.parseExpressionOrAssignStatement(true)
}

// let name: type = expr;
func (p *parser) parseVarDecl() (Statement, error) {
	start := p.advance()
	name, err := p.expectKind(TokenIdentifier, "variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPunctuation, ":"); err != nil {
		return nil, err
	}
	typeHint, err := p.expectKind(TokenIdentifier, "type name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenOperator, "="); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPunctuation, ";"); err != nil {
		return nil, err
	}
	return &VarDecl{Name: name.Lexeme, TypeHint: typeHint.Lexeme, Init: init, position: start.Pos}, nil
}

// fn name(params): type { body }
func (p *parser) parseFuncDecl() (Statement, error) {
	start := p.advance()
	name, err := p.expectKind(TokenIdentifier, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPunctuation, "("); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPunctuation, ")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPunctuation, ":"); err != nil {
		return nil, err
	}
	returnType, err := p.expectKind(TokenIdentifier, "return type")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: returnType.Lexeme,
		Body:       body,
		position:   start.Pos,
	}, nil
}

func (p *parser) parseParams() ([]Param, error) {
	params := []Param{}
	if !p.checkKind(TokenIdentifier) {
		return params, nil
	}
	for {
		name, err := p.expectKind(TokenIdentifier, "parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenPunctuation, ":"); err != nil {
			return nil, err
		}
		typeHint, err := p.expectKind(TokenIdentifier, "parameter type")
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Name: name.Lexeme, TypeHint: typeHint.Lexeme})
		if !p.check(TokenPunctuation, ",") {
			return params, nil
		}
		p.advance()
	}
}

func (p *parser) parseIfStatement() (Statement, error) {
	start := p.advance()
	condition, err := p.parseParenthesizedCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Condition: condition, Then: then, position: start.Pos}
	if p.check(TokenKeyword, "else") {
		p.advance()
		alt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = alt
	}
	return stmt, nil
}

func (p *parser) parseWhileStatement() (Statement, error) {
	start := p.advance()
	condition, err := p.parseParenthesizedCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: condition, Body: body, position: start.Pos}, nil
}

// for (init; cond; increment) body
//
// init is a let declaration or an expression/assignment statement; the
// increment is an expression or assignment without a trailing ';'.
func (p *parser) parseForStatement() (Statement, error) {
	start := p.advance()
	if _, err := p.expect(TokenPunctuation, "("); err != nil {
		return nil, err
	}

	var init Statement
	var err error
	if p.check(TokenKeyword, "let") {
		init, err = p.parseVarDecl()
	} else {
		init, err = p.parseExpressionOrAssignStatement(true)
	}
	if err != nil {
		return nil, err
	}

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPunctuation, ";"); err != nil {
		return nil, err
	}

	increment, err := p.parseExpressionOrAssignStatement(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPunctuation, ")"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Init: init, Condition: condition, Increment: increment, Body: body, position: start.Pos}, nil
}

func (p *parser) parseReturnStatement() (Statement, error) {
	start := p.advance()
	if p.check(TokenPunctuation, ";") {
		p.advance()
		return &ReturnStmt{position: start.Pos}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPunctuation, ";"); err != nil {
		return nil, err
	}
	return &ReturnStmt{Value: unwrapLiteral(value), position: start.Pos}, nil
}

func (p *parser) parseBlock() (*Block, error) {
	open, err := p.expect(TokenPunctuation, "{")
	if err != nil {
		return nil, err
	}
	block := &Block{Statements: []Statement{}, position: open.Pos}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Is(TokenPunctuation, "}") {
			p.advance()
			return block, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
}

func (p *parser) parseExpressionOrAssignStatement(terminated bool) (Statement, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	var stmt Statement = &ExprStmt{Expr: expr, position: expr.Pos()}
	if p.check(TokenOperator, "=") {
		target, ok := expr.(*Identifier)
		if !ok {
			return nil, p.errorAt(p.tokens[p.current], "invalid assignment target")
		}
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt = &AssignStmt{Name: target.Name, Value: unwrapLiteral(value), position: target.Pos()}
	}

	if terminated {
		if _, err := p.expect(TokenPunctuation, ";"); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *parser) parseParenthesizedCondition() (Expression, error) {
	if _, err := p.expect(TokenPunctuation, "("); err != nil {
		return nil, err
	}
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPunctuation, ")"); err != nil {
		return nil, err
	}
	return condition, nil
}

// unwrapLiteral stores a bare literal as its raw token.
func unwrapLiteral(expr Expression) Operand {
	if lit, ok := expr.(*Literal); ok {
		return lit.Token
	}
	return expr
}

func (p *parser) atEnd() bool {
	return p.current >= len(p.tokens)
}

func (p *parser) peek() (Token, error) {
	if p.atEnd() {
		return Token{}, p.errorEOF("unexpected end of input")
	}
	return p.tokens[p.current], nil
}

func (p *parser) advance() Token {
	tok := p.tokens[p.current]
	p.current++
	return tok
}

func (p *parser) check(kind TokenKind, lexeme string) bool {
	return !p.atEnd() && p.tokens[p.current].Is(kind, lexeme)
}

func (p *parser) checkKind(kind TokenKind) bool {
	return !p.atEnd() && p.tokens[p.current].Kind == kind
}

func (p *parser) expect(kind TokenKind, lexeme string) (Token, error) {
	tok, err := p.peek()
	if err != nil {
		return Token{}, p.errorEOF(fmt.Sprintf("expected %q, got end of input", lexeme))
	}
	if !tok.Is(kind, lexeme) {
		return Token{}, p.errorAt(tok, fmt.Sprintf("expected %q, got %q", lexeme, tok.Lexeme))
	}
	return p.advance(), nil
}

func (p *parser) expectKind(kind TokenKind, what string) (Token, error) {
	tok, err := p.peek()
	if err != nil {
		return Token{}, p.errorEOF(fmt.Sprintf("expected %s, got end of input", what))
	}
	if tok.Kind != kind {
		return Token{}, p.errorAt(tok, fmt.Sprintf("expected %s, got %s %q", what, tok.Kind, tok.Lexeme))
	}
	return p.advance(), nil
}

func (p *parser) errorAt(tok Token, msg string) error {
	offending := tok
	return &SyntaxError{Pos: tok.Pos, Lexeme: tok.Lexeme, Token: &offending, Msg: msg}
}

func (p *parser) errorEOF(msg string) error {
	pos := Position{Line: 1, Column: 1}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		pos = Position{Line: last.Pos.Line, Column: last.Pos.Column + len([]rune(last.Lexeme))}
	}
	return &SyntaxError{Pos: pos, Msg: msg, EOF: true}
}

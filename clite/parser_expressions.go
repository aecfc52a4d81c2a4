package clite

import "fmt"

const (
	lowestPrec = iota
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
)

var binaryPrecedences = map[string]int{
	"||": precOr,
	"&&": precAnd,
	"==": precEquality,
	"!=": precEquality,
	"<":  precComparison,
	"<=": precComparison,
	">":  precComparison,
	">=": precComparison,
	"+":  precSum,
	"-":  precSum,
	"*":  precProduct,
	"/":  precProduct,
	"%":  precProduct,
}

func (p *parser) parseExpression() (Expression, error) {
	return p.parseBinary(precOr)
}

// parseBinary climbs precedence levels; every binary level is left-associative.
func (p *parser) parseBinary(minPrec int) (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for !p.atEnd() {
		tok := p.tokens[p.current]
		if tok.Kind != TokenOperator {
			break
		}
		prec, ok := binaryPrecedences[tok.Lexeme]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Operator: tok.Lexeme, Left: left, Right: right, position: tok.Pos}
	}

	return left, nil
}

func (p *parser) parseUnary() (Expression, error) {
	if p.check(TokenOperator, "!") || p.check(TokenOperator, "-") {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: op.Lexeme, Operand: operand, position: op.Pos}, nil
	}
	return p.parseCall()
}

func (p *parser) parseCall() (Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.check(TokenPunctuation, "(") {
		p.advance()
		args := []Expression{}
		if !p.check(TokenPunctuation, ")") {
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.check(TokenPunctuation, ",") {
					break
				}
				p.advance()
			}
		}
		if _, err := p.expect(TokenPunctuation, ")"); err != nil {
			return nil, err
		}
		expr = &CallExpr{Callee: expr, Args: args, position: expr.Pos()}
	}

	return expr, nil
}

func (p *parser) parsePrimary() (Expression, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, p.errorEOF("expected expression, got end of input")
	}

	switch tok.Kind {
	case TokenInt, TokenFloat, TokenString:
		return &Literal{Token: p.advance()}, nil
	case TokenKeyword:
		switch tok.Lexeme {
		case "true", "false", "null":
			return &Literal{Token: p.advance()}, nil
		}
	case TokenIdentifier:
		p.advance()
		return &Identifier{Name: tok.Lexeme, position: tok.Pos}, nil
	case TokenPunctuation:
		if tok.Lexeme == "(" {
			p.advance()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenPunctuation, ")"); err != nil {
				return nil, err
			}
			return expr, nil
		}
	}

	return nil, p.errorAt(tok, fmt.Sprintf("unexpected token %q in expression", tok.Lexeme))
}

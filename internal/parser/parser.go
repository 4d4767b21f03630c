package parser

import (
	"fmt"
	"strconv"

	"clc-lang/impl/internal/lexer"
)

type Parser struct {
	toks []lexer.Token
	i    int

	// Inside brackets the closing bracket at index end terminates the
	// expression; at top level end is len(toks).
	end        int
	inBrackets bool
}

func New(toks []lexer.Token) *Parser { return &Parser{toks: toks, end: len(toks)} }

// Parse turns a token stream into a program, one expression per statement.
func Parse(toks []lexer.Token) (Program, error) { return New(toks).ParseProgram() }

// Precedence values (higher binds tighter)
const (
	precLowest = iota
	precAssign
	precAdd
	precMul
	precUnary
	precPow
	precFeed
)

var binaryOps = map[lexer.Kind]BinaryOperator{
	lexer.PLUS:  Add,
	lexer.MINUS: Sub,
	lexer.STAR:  Mul,
	lexer.SLASH: Div,
	lexer.CARET: Pow,
	lexer.EQUAL: Assign,
	lexer.FEED:  Feed,
}

var unaryOps = map[lexer.Kind]UnaryOperator{
	lexer.MINUS: Neg,
	lexer.PLUS:  Pos,
}

func precedence(op BinaryOperator) int {
	switch op {
	case Assign:
		return precAssign
	case Add, Sub:
		return precAdd
	case Mul, Div:
		return precMul
	case Pow:
		return precPow
	case Feed:
		return precFeed
	}
	return precLowest
}

func rightAssoc(op BinaryOperator) bool { return op == Assign }

func (p *Parser) ParseProgram() (Program, error) {
	var stmts []Expr
	for p.i < len(p.toks) {
		// blank lines and stray terminators
		if p.toks[p.i].Kind == lexer.STATEMENT_END {
			p.i++
			continue
		}
		expr, err := p.parseExpression(precLowest, "operand expected")
		if err != nil {
			return Program{}, err
		}
		if p.i >= len(p.toks) || p.toks[p.i].Kind != lexer.STATEMENT_END {
			return Program{}, p.errorf(p.i, "internal error")
		}
		p.i++
		stmts = append(stmts, expr)
	}
	return Program{Statements: stmts, Type: "Program"}, nil
}

// closes reports whether the current token ends the expression being parsed.
func (p *Parser) closes() bool {
	if p.inBrackets && p.i == p.end {
		return true
	}
	return p.toks[p.i].Kind == lexer.STATEMENT_END
}

func (p *Parser) parseExpression(minPrec int, missing string) (Expr, error) {
	left, err := p.parseOperand(missing)
	if err != nil {
		return nil, err
	}

	for {
		if p.i >= len(p.toks) {
			return nil, p.errorf(len(p.toks), "unterminated expression")
		}
		if p.closes() {
			return left, nil
		}
		t := p.toks[p.i]
		op, ok := binaryOps[t.Kind]
		if !ok {
			return nil, p.errorf(p.i, "binary operator expected, found %s", t.Kind)
		}
		prec := precedence(op)
		if prec < minPrec || (prec == minPrec && !rightAssoc(op)) {
			return left, nil
		}
		p.i++
		right, err := p.parseExpression(prec, "right operand expected")
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Left: left, Operator: op, Right: right, Type: "Binary"}
	}
}

func (p *Parser) parseOperand(missing string) (Expr, error) {
	if p.i >= len(p.toks) {
		return nil, p.errorf(len(p.toks), "unterminated expression")
	}
	if p.closes() {
		return nil, p.errorf(p.i, "%s", missing)
	}

	t := p.toks[p.i]
	switch t.Kind {
	case lexer.NUMBER:
		// overflow to ±Inf is rejected too
		f, err := strconv.ParseFloat(t.Lit, 64)
		if err != nil {
			return nil, p.errorf(p.i, "invalid number literal %q", t.Lit)
		}
		p.i++
		return Literal{Type: "Literal", Value: f}, nil
	case lexer.IDENTIFIER:
		p.i++
		return Variable{Name: t.Lit, Type: "Variable"}, nil
	case lexer.BRACKET_OPEN:
		return p.parseBracketed()
	}

	op, ok := unaryOps[t.Kind]
	if !ok {
		return nil, p.errorf(p.i, "unary operator expected, found %s", t.Kind)
	}
	p.i++
	operand, err := p.parseExpression(precUnary, "operand expected")
	if err != nil {
		return nil, err
	}
	return UnaryOp{Operand: operand, Operator: op, Type: "Unary"}, nil
}

// parseBracketed parses the region between the bracket at p.i and its match
// in place, so error indices stay relative to the full token stream.
func (p *Parser) parseBracketed() (Expr, error) {
	open := p.i
	depth := 0
	j := open
	for ; j < p.end; j++ {
		k := p.toks[j].Kind
		if k == lexer.STATEMENT_END {
			break
		}
		if k == lexer.BRACKET_OPEN {
			depth++
		} else if k == lexer.BRACKET_CLOSE {
			depth--
			if depth == 0 {
				break
			}
		}
	}
	if j >= p.end || depth != 0 {
		return nil, p.errorf(open, "unclosed bracket")
	}
	if j == open+1 {
		return nil, p.errorf(open, "empty parentheses")
	}

	sub := &Parser{toks: p.toks, i: open + 1, end: j, inBrackets: true}
	expr, err := sub.parseExpression(precLowest, "operand expected")
	if err != nil {
		return nil, err
	}
	p.i = j + 1
	return expr, nil
}

func (p *Parser) errorf(idx int, format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Tokens: p.toks, Index: idx}
}

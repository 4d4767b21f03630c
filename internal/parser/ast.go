package parser

import (
	"fmt"
	"strconv"
)

// Ordered JSON fields are ensured by struct field order.

// Program is the root AST node: one expression per top-level statement.
type Program struct {
	Statements []Expr `json:"statements"`
	Type       string `json:"type"`
}

// Expr is the closed set of expression nodes.
type Expr interface {
	isExpr()
	String() string
}

type BinaryOperator uint8

const (
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	Pow
	Assign
	Feed
)

var binaryNames = [...]string{Add: "ADD", Sub: "SUB", Mul: "MUL", Div: "DIV", Pow: "POW", Assign: "ASSIGN", Feed: "FEED"}

func (op BinaryOperator) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}
	return fmt.Sprintf("BinaryOperator(%d)", uint8(op))
}

func (op BinaryOperator) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

type UnaryOperator uint8

const (
	Neg UnaryOperator = iota
	Pos
)

func (op UnaryOperator) String() string {
	switch op {
	case Neg:
		return "NEG"
	case Pos:
		return "POS"
	}
	return fmt.Sprintf("UnaryOperator(%d)", uint8(op))
}

func (op UnaryOperator) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

type Literal struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

func (Literal) isExpr()          {}
func (l Literal) String() string { return strconv.FormatFloat(l.Value, 'g', -1, 64) }

type Variable struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (Variable) isExpr()          {}
func (v Variable) String() string { return v.Name }

type UnaryOp struct {
	Operand  Expr          `json:"operand"`
	Operator UnaryOperator `json:"operator"`
	Type     string        `json:"type"`
}

func (UnaryOp) isExpr()          {}
func (u UnaryOp) String() string { return fmt.Sprintf("(%s %s)", u.Operator, u.Operand) }

type BinaryOp struct {
	Left     Expr           `json:"left"`
	Operator BinaryOperator `json:"operator"`
	Right    Expr           `json:"right"`
	Type     string         `json:"type"`
}

func (BinaryOp) isExpr()          {}
func (b BinaryOp) String() string { return fmt.Sprintf("(%s %s %s)", b.Operator, b.Left, b.Right) }

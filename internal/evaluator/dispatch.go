package evaluator

import (
	"math"

	"clc-lang/impl/internal/parser"
)

type binaryEntry struct {
	match func(l, r Value) bool
	apply func(l, r Value) (Value, error)
}

type unaryEntry struct {
	match func(v Value) bool
	apply func(v Value) (Value, error)
}

// binaryCase builds a table entry matching when the operands have the
// dynamic types L and R. L or R may be Value itself to match anything.
func binaryCase[L, R Value](f func(L, R) (Value, error)) binaryEntry {
	return binaryEntry{
		match: func(l, r Value) bool {
			_, lok := l.(L)
			_, rok := r.(R)
			return lok && rok
		},
		apply: func(l, r Value) (Value, error) { return f(l.(L), r.(R)) },
	}
}

func unaryCase[T Value](f func(T) (Value, error)) unaryEntry {
	return unaryEntry{
		match: func(v Value) bool {
			_, ok := v.(T)
			return ok
		},
		apply: func(v Value) (Value, error) { return f(v.(T)) },
	}
}

func arith(f func(x, y float64) float64) binaryEntry {
	return binaryCase(func(a, b Number) (Value, error) { return Number{f(a.V, b.V)}, nil })
}

// Entries are tried in order; the first match wins. ASSIGN never reaches
// the table.
var binaryTable = map[parser.BinaryOperator][]binaryEntry{
	parser.Add: {arith(func(x, y float64) float64 { return x + y })},
	parser.Sub: {arith(func(x, y float64) float64 { return x - y })},
	parser.Mul: {arith(func(x, y float64) float64 { return x * y })},
	parser.Div: {arith(func(x, y float64) float64 { return x / y })},
	parser.Pow: {arith(math.Pow)},
	parser.Feed: {
		binaryCase(func(v Value, b *Builtin) (Value, error) { return b.Call(v) }),
	},
}

var unaryTable = map[parser.UnaryOperator][]unaryEntry{
	parser.Neg: {unaryCase(func(n Number) (Value, error) { return Number{-n.V}, nil })},
	parser.Pos: {unaryCase(func(n Number) (Value, error) { return n, nil })},
}

func applyBinary(op parser.BinaryOperator, l, r Value) (Value, error) {
	for _, e := range binaryTable[op] {
		if e.match(l, r) {
			return e.apply(l, r)
		}
	}
	return nil, runtimeErrorf("operator %s is not defined for %s and %s", op, l.TypeName(), r.TypeName())
}

func applyUnary(op parser.UnaryOperator, v Value) (Value, error) {
	for _, e := range unaryTable[op] {
		if e.match(v) {
			return e.apply(v)
		}
	}
	return nil, runtimeErrorf("operator %s is not defined for %s", op, v.TypeName())
}

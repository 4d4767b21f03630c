package evaluator

import (
	"math"
	"strconv"
	"strings"
)

// Value is a runtime value. The set of variants is closed: Number and *Builtin.
type Value interface {
	TypeName() string
	repr() string
}

type Number struct{ V float64 }

func (Number) TypeName() string { return "Number" }
func (n Number) repr() string   { return formatNumber(n.V) }

// Builtin is a named native function of one argument, see the registry.
type Builtin struct {
	Name string
	fn   func(Value) (Value, error)
}

func (*Builtin) TypeName() string                { return "Builtin" }
func (b *Builtin) repr() string                  { return "<builtin " + b.Name + ">" }
func (b *Builtin) Call(arg Value) (Value, error) { return b.fn(arg) }

func Format(v Value) string { return v.repr() }

// Equal compares numbers by value (NaN equals NaN) and builtins by name.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && (x.V == y.V || math.IsNaN(x.V) && math.IsNaN(y.V))
	case *Builtin:
		y, ok := b.(*Builtin)
		return ok && x.Name == y.Name
	}
	return false
}

// Plain decimal notation below 1e21, exponent form above it and for tiny
// magnitudes; integral values keep a trailing ".0".
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	var s string
	if abs := math.Abs(f); f == 0 || (abs >= 1e-6 && abs < 1e21) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

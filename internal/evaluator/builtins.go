package evaluator

import (
	"fmt"
	"math"
	"os"
	"slices"
)

type builtinDef struct {
	name string
	fn   func(Value) (Value, error)
}

func numeric(name string, f func(float64) float64) builtinDef {
	return builtinDef{name, func(v Value) (Value, error) {
		n, ok := v.(Number)
		if !ok {
			return nil, argError(name, v)
		}
		return Number{f(n.V)}, nil
	}}
}

func argError(name string, v Value) error {
	return runtimeErrorf("%q built-in function is not defined for arg of type %q", name, v.TypeName())
}

var builtinList = []builtinDef{
	numeric("log", math.Log),
	numeric("exp", math.Exp),
	{"print", func(v Value) (Value, error) {
		fmt.Fprintln(os.Stdout, Format(v))
		return Number{0}, nil
	}},
	numeric("sqrt", math.Sqrt),
	numeric("abs", math.Abs),
	numeric("sin", math.Sin),
	numeric("cos", math.Cos),
	numeric("tan", math.Tan),
	numeric("floor", math.Floor),
	numeric("ceil", math.Ceil),
	numeric("round", math.Round),
}

// Filled once by init, read-only afterwards.
var (
	registry     = map[string]*Builtin{}
	builtinNames []string
)

func init() {
	for _, s := range builtinList {
		registry[s.name] = &Builtin{Name: s.name, fn: s.fn}
		builtinNames = append(builtinNames, s.name)
	}
	slices.Sort(builtinNames)
}

func Lookup(name string) (*Builtin, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names returns the builtin names in sorted order.
func Names() []string { return slices.Clone(builtinNames) }

package evaluator

import (
	"slices"

	"fortio.org/log"

	"clc-lang/impl/internal/parser"
)

// Env holds the variables of one program run or REPL session.
// Bindings are only ever added or overwritten.
type Env struct {
	store map[string]Value
}

func NewEnv() *Env { return &Env{store: map[string]Value{}} }

func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.store[name]
	return v, ok
}

func (e *Env) Set(name string, v Value) { e.store[name] = v }

func (e *Env) Len() int { return len(e.store) }

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.store))
	for n := range e.store {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Evaluate runs the statements in order against env and returns one value
// per statement. On error nothing is returned, but assignments made by
// earlier statements stay in env.
func Evaluate(stmts []parser.Expr, env *Env) ([]Value, error) {
	out := make([]Value, 0, len(stmts))
	for _, st := range stmts {
		v, err := eval(st, env)
		if err != nil {
			log.LogVf("statement %s failed: %v", st, err)
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func eval(e parser.Expr, env *Env) (Value, error) {
	switch n := e.(type) {
	case parser.Literal:
		return Number{n.Value}, nil
	case parser.Variable:
		return resolve(n.Name, env)
	case parser.UnaryOp:
		log.LogVf("eval unary %s", n)
		v, err := eval(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return applyUnary(n.Operator, v)
	case parser.BinaryOp:
		log.LogVf("eval binary %s", n)
		if n.Operator == parser.Assign {
			return assign(n, env)
		}
		// right operand first
		r, err := eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		l, err := eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		return applyBinary(n.Operator, l, r)
	}
	return nil, runtimeErrorf("unknown expression %T", e)
}

// Variables shadow builtins.
func resolve(name string, env *Env) (Value, error) {
	if v, ok := env.Get(name); ok {
		return v, nil
	}
	if b, ok := Lookup(name); ok {
		return b, nil
	}
	return nil, runtimeErrorf("undefined identifier %q", name)
}

func assign(n parser.BinaryOp, env *Env) (Value, error) {
	v, err := eval(n.Right, env)
	if err != nil {
		return nil, err
	}
	target, ok := n.Left.(parser.Variable)
	if !ok {
		return nil, runtimeErrorf("assignment target must be a variable")
	}
	log.LogVf("assign %s = %s", target.Name, Format(v))
	env.Set(target.Name, v)
	return v, nil
}

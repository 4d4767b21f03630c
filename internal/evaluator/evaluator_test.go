package evaluator_test

import (
	"errors"
	"io"
	"math"
	"os"
	"reflect"
	"testing"

	"clc-lang/impl/internal/evaluator"
	"clc-lang/impl/internal/lexer"
	"clc-lang/impl/internal/parser"
)

func evalSource(t testing.TB, src string, env *evaluator.Env) ([]evaluator.Value, error) {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return evaluator.Evaluate(prog.Statements, env)
}

func last(t *testing.T, src string) evaluator.Value {
	t.Helper()
	vals, err := evalSource(t, src, evaluator.NewEnv())
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", src, err)
	}
	if len(vals) == 0 {
		t.Fatalf("Evaluate(%q) returned no values", src)
	}
	return vals[len(vals)-1]
}

// captureStdout swaps os.Stdout for a pipe while fn runs.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()
	fn()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"1+2", 3},
		{"1*4+5", 9},
		{"1+4*5", 21},
		{"10/5/2/2", 0.5},
		{"10+2*(5+3-1)", 24},
		{"(((1)))", 1},
		{"-(1+2)", -3},
		{"a=1;a", 1},
		{"a=1;b=2;a+b", 3},
		{"-2^2", -4},
		{"2^3^2", 64},
		{"2^-1", 0.5},
		{"2^2^-1", 0.25},
		{"2^(3^2)", 512},
		{"8/4*2", 4},
		{"1 - 2 - 3", -4},
		{"+3", 3},
		{"--3", 3},
		{"1 > log", 0},
		{"16 > sqrt > sqrt", 2},
		{"-2.5 > abs > floor", -2},
		{"(0 - 2.5) > abs > floor", 2},
		{"2.5 > round", 3},
		{"0.1 > ceil", 1},
		{"0 > sin + (0 > cos)", 1},
		{"var = (1 + 14 * (54^2))", 40825},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := last(t, tt.src)
			want := evaluator.Number{V: tt.want}
			if !evaluator.Equal(got, want) {
				t.Errorf("Evaluate(%q) = %s, want %s", tt.src, evaluator.Format(got), evaluator.Format(want))
			}
		})
	}
}

func TestFeedRoundTrip(t *testing.T) {
	got, ok := last(t, "1 > exp > log").(evaluator.Number)
	if !ok || math.Abs(got.V-1) > 1e-12 {
		t.Errorf("1 > exp > log = %v, want 1", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	tests := map[string]string{
		"1/0":  "inf",
		"-1/0": "-inf",
		"0/0":  "nan",
	}
	for src, want := range tests {
		if got := evaluator.Format(last(t, src)); got != want {
			t.Errorf("%s = %s, want %s", src, got, want)
		}
	}
}

func TestSameValueForEquivalentPrograms(t *testing.T) {
	if !evaluator.Equal(last(t, "(((1)))"), last(t, "1")) {
		t.Error("(((1))) and 1 differ")
	}
	if !evaluator.Equal(last(t, "1 + 2 - 3"), last(t, "(1 + 2) - 3")) {
		t.Error("1 + 2 - 3 is not left-associative")
	}
}

func TestEvaluateReturnsOneValuePerStatement(t *testing.T) {
	vals, err := evalSource(t, "a = 2\n a * 3; a > exp > log", evaluator.NewEnv())
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 3 {
		t.Fatalf("got %d values, want 3", len(vals))
	}
	if !evaluator.Equal(vals[0], evaluator.Number{V: 2}) || !evaluator.Equal(vals[1], evaluator.Number{V: 6}) {
		t.Errorf("got %v", vals)
	}
}

func TestChainedAssignment(t *testing.T) {
	env := evaluator.NewEnv()
	if _, err := evalSource(t, "a = b = 10", env); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a", "b"} {
		v, ok := env.Get(name)
		if !ok || !evaluator.Equal(v, evaluator.Number{V: 10}) {
			t.Errorf("%s = %v, %v; want 10", name, v, ok)
		}
	}
	if got := env.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestEnvPersistsAcrossCalls(t *testing.T) {
	env := evaluator.NewEnv()
	if _, err := evalSource(t, "x = 4", env); err != nil {
		t.Fatal(err)
	}
	vals, err := evalSource(t, "x * x", env)
	if err != nil {
		t.Fatal(err)
	}
	if !evaluator.Equal(vals[0], evaluator.Number{V: 16}) {
		t.Errorf("x * x = %s", evaluator.Format(vals[0]))
	}
}

func TestErrorKeepsEarlierAssignments(t *testing.T) {
	env := evaluator.NewEnv()
	vals, err := evalSource(t, "a = 1; b; c = 3", env)
	if err == nil {
		t.Fatal("expected error")
	}
	if vals != nil {
		t.Errorf("values = %v, want nil on error", vals)
	}
	if _, ok := env.Get("a"); !ok {
		t.Error("a was not kept")
	}
	if _, ok := env.Get("c"); ok {
		t.Error("c was assigned after the failing statement")
	}
}

func TestVariablesShadowBuiltins(t *testing.T) {
	env := evaluator.NewEnv()
	vals, err := evalSource(t, "log = 5; log", env)
	if err != nil {
		t.Fatal(err)
	}
	if !evaluator.Equal(vals[1], evaluator.Number{V: 5}) {
		t.Errorf("log = %s", evaluator.Format(vals[1]))
	}
	if v := last(t, "f = exp; 0 > f"); !evaluator.Equal(v, evaluator.Number{V: 1}) {
		t.Errorf("0 > f = %s", evaluator.Format(v))
	}
}

func TestAssignBracketedVariable(t *testing.T) {
	if v := last(t, "(a) = 7; a"); !evaluator.Equal(v, evaluator.Number{V: 7}) {
		t.Errorf("got %s", evaluator.Format(v))
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"x", `undefined identifier "x"`},
		{"a = 1; a + zz", `undefined identifier "zz"`},
		{"1 + log", "operator ADD is not defined for Number and Builtin"},
		{"exp * 2", "operator MUL is not defined for Builtin and Number"},
		{"-log", "operator NEG is not defined for Builtin"},
		{"+exp", "operator POS is not defined for Builtin"},
		{"1 > 2", "operator FEED is not defined for Number and Number"},
		{"log > log", `"log" built-in function is not defined for arg of type "Builtin"`},
		{"exp > sqrt", `"sqrt" built-in function is not defined for arg of type "Builtin"`},
		{"1 = 2", "assignment target must be a variable"},
		{"a + 1 = 2", "assignment target must be a variable"},
		{"1 = q", `undefined identifier "q"`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := evalSource(t, tt.src, evaluator.NewEnv())
			var re *evaluator.RuntimeError
			if !errors.As(err, &re) {
				t.Fatalf("error = %v, want *RuntimeError", err)
			}
			if re.Msg != tt.msg {
				t.Errorf("msg = %q, want %q", re.Msg, tt.msg)
			}
			if re.Error() != "runtime error: "+tt.msg {
				t.Errorf("Error() = %q", re.Error())
			}
		})
	}
}

func TestPrint(t *testing.T) {
	var v evaluator.Value
	out := captureStdout(t, func() { v = last(t, "x = 2.5; x > print") })
	if out != "2.5\n" {
		t.Errorf("stdout = %q", out)
	}
	if !evaluator.Equal(v, evaluator.Number{V: 0}) {
		t.Errorf("print returned %s, want 0.0", evaluator.Format(v))
	}

	out = captureStdout(t, func() { last(t, "exp > print") })
	if out != "<builtin exp>\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRightOperandEvaluatedFirst(t *testing.T) {
	out := captureStdout(t, func() { last(t, "1 > print + 2 > print") })
	if out != "2.0\n1.0\n" {
		t.Errorf("stdout = %q, want right side printed first", out)
	}

	out = captureStdout(t, func() { last(t, "a = 3 > print") })
	if out != "3.0\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestFormat(t *testing.T) {
	log, _ := evaluator.Lookup("log")
	tests := []struct {
		v    evaluator.Value
		want string
	}{
		{evaluator.Number{V: 3}, "3.0"},
		{evaluator.Number{V: -3}, "-3.0"},
		{evaluator.Number{V: 0}, "0.0"},
		{evaluator.Number{V: 0.5}, "0.5"},
		{evaluator.Number{V: 123456789}, "123456789.0"},
		{evaluator.Number{V: 1e21}, "1e+21"},
		{evaluator.Number{V: 1e-7}, "1e-07"},
		{evaluator.Number{V: math.Inf(1)}, "inf"},
		{evaluator.Number{V: math.Inf(-1)}, "-inf"},
		{evaluator.Number{V: math.NaN()}, "nan"},
		{log, "<builtin log>"},
	}
	for _, tt := range tests {
		if got := evaluator.Format(tt.v); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	exp, _ := evaluator.Lookup("exp")
	log, _ := evaluator.Lookup("log")
	nan := evaluator.Number{V: math.NaN()}
	tests := []struct {
		a, b evaluator.Value
		want bool
	}{
		{evaluator.Number{V: 1}, evaluator.Number{V: 1}, true},
		{evaluator.Number{V: 1}, evaluator.Number{V: 2}, false},
		{nan, nan, true},
		{exp, exp, true},
		{exp, log, false},
		{exp, evaluator.Number{V: 1}, false},
		{evaluator.Number{V: 1}, exp, false},
	}
	for _, tt := range tests {
		if got := evaluator.Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%s, %s) = %v", evaluator.Format(tt.a), evaluator.Format(tt.b), got)
		}
	}
}

func TestRegistry(t *testing.T) {
	want := []string{"abs", "ceil", "cos", "exp", "floor", "log", "print", "round", "sin", "sqrt", "tan"}
	names := evaluator.Names()
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
	names[0] = "mutated"
	if evaluator.Names()[0] != "abs" {
		t.Error("Names() exposes the registry")
	}

	sqrt, ok := evaluator.Lookup("sqrt")
	if !ok || sqrt.Name != "sqrt" || sqrt.TypeName() != "Builtin" {
		t.Fatalf("Lookup(sqrt) = %v, %v", sqrt, ok)
	}
	v, err := sqrt.Call(evaluator.Number{V: 16})
	if err != nil || !evaluator.Equal(v, evaluator.Number{V: 4}) {
		t.Errorf("sqrt(16) = %v, %v", v, err)
	}
	if _, ok := evaluator.Lookup("nope"); ok {
		t.Error("Lookup(nope) succeeded")
	}
}

func BenchmarkEvaluate(b *testing.B) {
	toks, err := lexer.Lex("a = 1; b = 2\nc = (a + b) * 3 ^ 2 / 4 - -a\nc > exp > log > sqrt")
	if err != nil {
		b.Fatal(err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := evaluator.Evaluate(prog.Statements, evaluator.NewEnv()); err != nil {
			b.Fatal(err)
		}
	}
}

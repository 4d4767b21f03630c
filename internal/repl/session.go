// Package repl runs clc programs one line at a time against a persistent
// environment.
package repl

import (
	"strings"

	"clc-lang/impl/internal/evaluator"
	"clc-lang/impl/internal/lexer"
	"clc-lang/impl/internal/parser"
)

// Session is not safe for concurrent use.
type Session struct {
	env *evaluator.Env
}

func NewSession() *Session { return &Session{env: evaluator.NewEnv()} }

func (s *Session) Env() *evaluator.Env { return s.env }

// Exec runs one line. It returns the value of the last statement, or nil
// when the line holds no statement. Tokenize and parse errors leave the
// environment untouched.
func (s *Session) Exec(line string) (evaluator.Value, error) {
	toks, err := lexer.Lex(line)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	vals, err := evaluator.Evaluate(prog.Statements, s.env)
	if err != nil || len(vals) == 0 {
		return nil, err
	}
	return vals[len(vals)-1], nil
}

// Complete expands the identifier at the end of line to every builtin or
// variable name it prefixes.
func (s *Session) Complete(line string) []string {
	start := len(line)
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	// identifiers cannot start with a digit
	for start < len(line) && line[start] >= '0' && line[start] <= '9' {
		start++
	}
	prefix := line[start:]
	if prefix == "" {
		return nil
	}

	seen := map[string]bool{}
	var out []string
	for _, names := range [][]string{s.env.Names(), evaluator.Names()} {
		for _, n := range names {
			if strings.HasPrefix(n, prefix) && !seen[n] {
				seen[n] = true
				out = append(out, line[:start]+n)
			}
		}
	}
	return out
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

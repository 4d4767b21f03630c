package parser

import (
	"strings"

	"clc-lang/impl/internal/lexer"
)

// ParseError points at the token, by index into Tokens, where parsing failed.
// Index may equal len(Tokens) when the input ran out.
type ParseError struct {
	Msg    string
	Tokens []lexer.Token
	Index  int
}

func (e *ParseError) Error() string {
	rendered := lexer.Untokenize(e.Tokens)
	col := len(rendered)
	if e.Index < len(e.Tokens) {
		col = lexer.Offsets(e.Tokens)[e.Index]
	}
	return strings.Join([]string{
		"parse error: " + e.Msg,
		rendered,
		strings.Repeat(" ", col) + "^",
	}, "\n")
}

package lexer

import "strings"

const contextLen = 10

// TokenizeError reports a character the lexer cannot start a token with.
// Offset counts characters (runes), not bytes.
type TokenizeError struct {
	Msg    string
	Source string
	Offset int
}

func (e *TokenizeError) Error() string {
	rs := []rune(e.Source)
	start := max(0, e.Offset-contextLen)
	end := min(len(rs), e.Offset+contextLen)

	var snippet strings.Builder
	pad := e.Offset - start
	if start > 0 {
		snippet.WriteString("...")
		pad += 3
	}
	for _, r := range rs[start:end] {
		// keep the caret aligned
		if r == '\n' || r == '\t' || r == '\r' {
			r = ' '
		}
		snippet.WriteRune(r)
	}
	if end < len(rs) {
		snippet.WriteString("...")
	}

	return strings.Join([]string{
		"tokenize error: " + e.Msg,
		snippet.String(),
		strings.Repeat(" ", pad) + "^",
	}, "\n")
}

package lexer

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	NUMBER Kind = iota
	IDENTIFIER
	PLUS
	MINUS
	STAR
	SLASH
	CARET
	EQUAL
	BRACKET_OPEN
	BRACKET_CLOSE
	FEED
	STATEMENT_END
)

var kindNames = [...]string{
	NUMBER:        "NUMBER",
	IDENTIFIER:    "IDENTIFIER",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	STAR:          "STAR",
	SLASH:         "SLASH",
	CARET:         "CARET",
	EQUAL:         "EQUAL",
	BRACKET_OPEN:  "BRACKET_OPEN",
	BRACKET_CLOSE: "BRACKET_CLOSE",
	FEED:          "FEED",
	STATEMENT_END: "STATEMENT_END",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type Token struct {
	Kind Kind
	Lit  string
}

var singleChar = map[rune]Kind{
	'+':  PLUS,
	'-':  MINUS,
	'*':  STAR,
	'/':  SLASH,
	'(':  BRACKET_OPEN,
	')':  BRACKET_CLOSE,
	'^':  CARET,
	'=':  EQUAL,
	';':  STATEMENT_END,
	'\n': STATEMENT_END,
	'>':  FEED,
}

// Lex converts source into a flat token stream. The stream always ends with
// STATEMENT_END unless it is empty.
func Lex(src string) ([]Token, error) {
	var out []Token
	rs := []rune(src)
	n := len(rs)
	i := 0

	emit := func(k Kind, lit string) { out = append(out, Token{Kind: k, Lit: lit}) }
	fail := func(at int, format string, args ...any) error {
		return &TokenizeError{Msg: fmt.Sprintf(format, args...), Source: src, Offset: at}
	}

	for i < n {
		ch := rs[i]

		// Numbers: digits with at most one decimal point
		if isNumberChar(ch) {
			start := i
			dot := -1
			digits := false
			for i < n && isNumberChar(rs[i]) {
				if rs[i] == '.' {
					if dot >= 0 {
						return nil, fail(i, "malformed number: more than one decimal point")
					}
					dot = i
				} else {
					digits = true
				}
				i++
			}
			if !digits {
				return nil, fail(start, "malformed number: no digits")
			}
			emit(NUMBER, string(rs[start:i]))
			continue
		}

		if isLetter(ch) {
			start := i
			i++
			for i < n && (isLetter(rs[i]) || isDigit(rs[i])) {
				i++
			}
			emit(IDENTIFIER, string(rs[start:i]))
			continue
		}

		if k, ok := singleChar[ch]; ok {
			emit(k, string(ch))
			i++
			continue
		}

		if unicode.IsSpace(ch) {
			i++
			continue
		}

		return nil, fail(i, "unexpected character %q", ch)
	}

	if len(out) > 0 && out[len(out)-1].Kind != STATEMENT_END {
		emit(STATEMENT_END, "")
	}
	return out, nil
}

// Untokenize renders tokens back into a single line of source text.
func Untokenize(toks []Token) string {
	s, _ := render(toks)
	return s
}

// Offsets returns the byte column at which each token starts in the
// Untokenize rendering of toks.
func Offsets(toks []Token) []int {
	_, offs := render(toks)
	return offs
}

func render(toks []Token) (string, []int) {
	var b strings.Builder
	offs := make([]int, len(toks))
	for i, t := range toks {
		if i > 0 && spaced(toks[i-1].Kind, t.Kind) {
			b.WriteByte(' ')
		}
		offs[i] = b.Len()
		b.WriteString(text(t))
	}
	return b.String(), offs
}

func text(t Token) string {
	if t.Kind == STATEMENT_END {
		if t.Lit == "" {
			return ""
		}
		return ";"
	}
	return t.Lit
}

func spaced(prev, next Kind) bool {
	switch {
	case next == STATEMENT_END, next == BRACKET_CLOSE, next == CARET:
		return false
	case prev == BRACKET_OPEN, prev == CARET:
		return false
	}
	return true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNumberChar(r rune) bool { return isDigit(r) || r == '.' }

func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

package parser

import "strings"

// Tree draws an expression as an indented box-drawing tree, one node per line.
func Tree(e Expr) string {
	switch ex := e.(type) {
	case UnaryOp:
		return branches(ex.Operator.String(), ex.Operand)
	case BinaryOp:
		return branches(ex.Operator.String(), ex.Left, ex.Right)
	default:
		return e.String()
	}
}

func branches(title string, children ...Expr) string {
	var b strings.Builder
	b.WriteString(title)
	for i, child := range children {
		first, rest := "├─", "│ "
		if i == len(children)-1 {
			first, rest = "└─", "  "
		}
		for j, line := range strings.Split(Tree(child), "\n") {
			b.WriteByte('\n')
			if j == 0 {
				b.WriteString(first)
			} else {
				b.WriteString(rest)
			}
			b.WriteString(line)
		}
	}
	return b.String()
}

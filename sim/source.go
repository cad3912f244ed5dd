package sim

import (
	"unicode/utf8"

	"go.starlark.net/syntax"
)

// sourceText recovers the text of call arguments in a script.
type sourceText struct {
	src   []byte
	lines []int // Byte offset of each line.
	file  *syntax.File
}

func newSourceText(filename string, src []byte) *sourceText {
	st := &sourceText{src: src, lines: []int{0}}
	for n, c := range src {
		if c == '\n' {
			st.lines = append(st.lines, n+1)
		}
	}

	opts := syntax.FileOptions{
		While:           true,
		Recursion:       true,
		GlobalReassign:  true,
		TopLevelControl: true,
	}
	file, err := opts.Parse(filename, src, 0)
	if err == nil {
		st.file = file
	}

	return st
}

// offset converts a position (1-based line, 1-based rune column) to a byte
// offset, or -1.
func (st *sourceText) offset(pos syntax.Position) int {
	line := int(pos.Line) - 1
	if line < 0 || line >= len(st.lines) {
		return -1
	}

	offset := st.lines[line]
	for col := int32(1); col < pos.Col; col++ {
		if offset >= len(st.src) {
			return -1
		}
		_, size := utf8.DecodeRune(st.src[offset:])
		offset += size
	}

	return offset
}

func (st *sourceText) text(node syntax.Node) string {
	start, end := node.Span()
	from, to := st.offset(start), st.offset(end)
	if from < 0 || to < from {
		return ""
	}

	return string(st.src[from:to])
}

// callArgs returns the argument text of the call made at pos. The call is
// the one whose opening parenthesis is at pos, or failing that the first
// call to dbg on the same line.
func (st *sourceText) callArgs(pos syntax.Position) (exprs []string) {
	if st.file == nil {
		return
	}

	var found, sameLine *syntax.CallExpr
	syntax.Walk(st.file, func(node syntax.Node) bool {
		if found != nil {
			return false
		}
		call, ok := node.(*syntax.CallExpr)
		if !ok {
			return true
		}
		switch {
		case call.Lparen.Line == pos.Line && call.Lparen.Col == pos.Col:
			found = call
		case sameLine == nil && call.Lparen.Line == pos.Line:
			if ident, ok := call.Fn.(*syntax.Ident); ok && ident.Name == "dbg" {
				sameLine = call
			}
		}
		return true
	})
	if found == nil {
		found = sameLine
	}
	if found == nil {
		return
	}

	for _, arg := range found.Args {
		exprs = append(exprs, st.text(arg))
	}

	return
}

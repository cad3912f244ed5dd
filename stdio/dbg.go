// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stdio

import (
	"fmt"
	"path"
	"runtime"

	"github.com/kr/pretty"
)

// DbgHere writes "[file:line]" for the calling line to Stderr.
func DbgHere() {
	file, line, _ := callsite("DbgHere")
	Eprintf("[%s:%d]\n", file, line)
}

// Dbg writes "[file:line] expr = value" to Stderr and returns v unchanged,
// so it can wrap any expression in place:
//
//	x := stdio.Dbg(compute())
//
// expr is the source text of the argument when the caller's source file
// is available, and the type of v otherwise.
func Dbg[T any](v T) T {
	file, line, exprs := callsite("Dbg")
	DbgAt(file, line, argText(exprs, 0), v)
	return v
}

// Dbg2 is Dbg of two values, one line each.
func Dbg2[A, B any](a A, b B) (A, B) {
	file, line, exprs := callsite("Dbg2")
	DbgAt(file, line, argText(exprs, 0), a)
	DbgAt(file, line, argText(exprs, 1), b)
	return a, b
}

// Dbg3 is Dbg of three values, one line each.
func Dbg3[A, B, C any](a A, b B, c C) (A, B, C) {
	file, line, exprs := callsite("Dbg3")
	DbgAt(file, line, argText(exprs, 0), a)
	DbgAt(file, line, argText(exprs, 1), b)
	DbgAt(file, line, argText(exprs, 2), c)
	return a, b, c
}

// DbgN is Dbg of any number of values. It returns them as a slice.
// With no values it behaves as DbgHere.
func DbgN(vs ...any) []any {
	file, line, exprs := callsite("DbgN")
	if len(vs) == 0 {
		Eprintf("[%s:%d]\n", file, line)
		return vs
	}
	if len(exprs) != len(vs) {
		// Spread call, DbgN(xs...): the argument text names the slice.
		exprs = nil
	}
	for n, v := range vs {
		DbgAt(file, line, argText(exprs, n), v)
	}
	return vs
}

// DbgAt writes one dbg line for an explicit location. An empty expr is
// replaced by the type of v.
func DbgAt(file string, line int, expr string, v any) {
	if expr == "" {
		expr = fmt.Sprintf("%T", v)
	}
	Eprintf("[%s:%d] %s = %# v\n", file, line, expr, pretty.Formatter(v))
}

// callsite locates the caller of the named Dbg function, two frames up.
func callsite(name string) (file string, line int, exprs []string) {
	_, full, line, ok := runtime.Caller(2)
	if !ok {
		return "?", 0, nil
	}
	file = shortPath(full)
	exprs = callArgs(full, line, name)
	return
}

func argText(exprs []string, n int) string {
	if n < len(exprs) {
		return exprs[n]
	}
	return ""
}

// shortPath keeps the last directory and the file name.
func shortPath(full string) string {
	dir, file := path.Split(full)
	dir = path.Base(path.Clean(dir))
	if dir == "." || dir == "/" {
		return file
	}
	return dir + "/" + file
}

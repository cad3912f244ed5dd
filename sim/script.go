// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/rt0/console"
	"github.com/ezrec/rt0/mmio"
	"github.com/ezrec/rt0/stdio"
)

// Script is a console application written in Starlark.
//
// The script is the body of main. Besides the Starlark universe it can
// use:
//
//	io_init()          initialize the console I/O, returns the backend name
//	print(*args)       write a line to stdout
//	eprint(*args)      write to stderr
//	eprintln(*args)    write a line to stderr
//	dbg(*args)         report the expressions and their values on stderr
//	panic(msg)         panic with msg
type Script struct {
	Verbose  bool
	Filename string
	Source   []byte
}

// LoadScript reads a script from path.
func LoadScript(path string) (s *Script, err error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return
	}

	s = &Script{
		Filename: path,
		Source:   src,
	}

	return
}

// App returns the script as an application. The script is cancelled when
// ctx is done.
func (s *Script) App(ctx context.Context) App {
	return func(bus mmio.Window) {
		s.run(ctx, bus)
	}
}

func (s *Script) run(ctx context.Context, bus mmio.Window) {
	thread := &starlark.Thread{
		Name: s.Filename,
		Print: func(_ *starlark.Thread, msg string) {
			stdio.Println(msg)
		},
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	b := &builtins{script: s, bus: bus}

	opts := syntax.FileOptions{
		While:           true,
		Recursion:       true,
		GlobalReassign:  true,
		TopLevelControl: true,
	}

	if s.Verbose {
		log.Printf("sim: script %v", s.Filename)
	}

	_, err := starlark.ExecFileOptions(&opts, thread, s.Filename, s.Source, b.predeclared())
	if err != nil {
		panic(s.scriptError(err))
	}
}

// scriptError locates err in the script.
func (s *Script) scriptError(err error) *ErrScript {
	var serr *ErrScript
	if errors.As(err, &serr) {
		return serr
	}

	e := &ErrScript{File: s.Filename, Err: err}

	var evalErr *starlark.EvalError
	var syntaxErr syntax.Error
	var resolveErr resolve.ErrorList
	switch {
	case errors.As(err, &evalErr):
		for i := len(evalErr.CallStack) - 1; i >= 0; i-- {
			pos := evalErr.CallStack[i].Pos
			if pos.Line > 0 {
				e.File = pos.Filename()
				e.LineNo = int(pos.Line)
				break
			}
		}
		e.Err = errors.New(evalErr.Msg)
	case errors.As(err, &syntaxErr):
		e.File = syntaxErr.Pos.Filename()
		e.LineNo = int(syntaxErr.Pos.Line)
		e.Err = errors.New(syntaxErr.Msg)
	case errors.As(err, &resolveErr) && len(resolveErr) != 0:
		e.File = resolveErr[0].Pos.Filename()
		e.LineNo = int(resolveErr[0].Pos.Line)
		e.Err = errors.New(resolveErr[0].Msg)
	}

	return e
}

// builtins are the console functions a script can call.
type builtins struct {
	script *Script
	bus    mmio.Window
	source *sourceText
}

func (b *builtins) predeclared() starlark.StringDict {
	return starlark.StringDict{
		"io_init":  starlark.NewBuiltin("io_init", b.ioInit),
		"eprint":   starlark.NewBuiltin("eprint", b.eprint),
		"eprintln": starlark.NewBuiltin("eprintln", b.eprintln),
		"dbg":      starlark.NewBuiltin("dbg", b.dbg),
		"panic":    starlark.NewBuiltin("panic", b.panic),
	}
}

func (b *builtins) ioInit(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0)
	if err != nil {
		return nil, err
	}

	backend := console.Init(b.bus)
	if b.script.Verbose {
		log.Printf("sim: io_init: %v", backend)
	}

	return starlark.String(backend.String()), nil
}

// join formats args as print does: strings unquoted, separated by sep.
func join(args starlark.Tuple, kwargs []starlark.Tuple, name string) (text string, err error) {
	sep := " "
	for _, kv := range kwargs {
		key, _ := starlark.AsString(kv[0])
		if key != "sep" {
			err = fmt.Errorf("%s: unexpected keyword argument %s", name, key)
			return
		}
		var ok bool
		sep, ok = starlark.AsString(kv[1])
		if !ok {
			err = fmt.Errorf("%s: for parameter sep: got %s, want string", name, kv[1].Type())
			return
		}
	}

	words := make([]string, len(args))
	for n, arg := range args {
		if s, ok := starlark.AsString(arg); ok {
			words[n] = s
		} else {
			words[n] = arg.String()
		}
	}

	text = strings.Join(words, sep)
	return
}

func (b *builtins) eprint(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	text, err := join(args, kwargs, fn.Name())
	if err != nil {
		return nil, err
	}

	stdio.Eprint(text)

	return starlark.None, nil
}

func (b *builtins) eprintln(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	text, err := join(args, kwargs, fn.Name())
	if err != nil {
		return nil, err
	}

	stdio.Eprintln(text)

	return starlark.None, nil
}

// dbg reports each argument with its source text, and returns the argument
// (one), None (none) or a tuple of them (several).
func (b *builtins) dbg(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) != 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
	}

	pos := thread.CallFrame(1).Pos
	file := pos.Filename()
	line := int(pos.Line)

	if len(args) == 0 {
		stdio.Eprintf("[%s:%d]\n", file, line)
		return starlark.None, nil
	}

	if b.source == nil {
		b.source = newSourceText(b.script.Filename, b.script.Source)
	}
	exprs := b.source.callArgs(pos)
	if len(exprs) != len(args) {
		exprs = nil
	}

	for n, arg := range args {
		expr := arg.Type()
		if exprs != nil {
			expr = exprs[n]
		}
		stdio.DbgAt(file, line, expr, toGo(arg))
	}

	if len(args) == 1 {
		return args[0], nil
	}

	return args, nil
}

func (b *builtins) panic(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	msg := "explicit panic"
	if len(args) != 0 || len(kwargs) != 0 {
		text, err := join(args, kwargs, fn.Name())
		if err != nil {
			return nil, err
		}
		msg = text
	}

	pos := thread.CallFrame(1).Pos

	panic(&ErrScript{
		File:   pos.Filename(),
		LineNo: int(pos.Line),
		Err:    errors.New(msg),
	})
}

// toGo converts a Starlark value to the Go value dbg reports.
func toGo(v starlark.Value) any {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(v)
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.BigInt()
	case starlark.Float:
		return float64(v)
	case starlark.String:
		return string(v)
	case starlark.Bytes:
		return []byte(v)
	case starlark.Tuple:
		return toGoSlice(v)
	case *starlark.List:
		list := make([]starlark.Value, v.Len())
		for n := range list {
			list[n] = v.Index(n)
		}
		return toGoSlice(list)
	case *starlark.Dict:
		dict := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				key = item[0].String()
			}
			dict[key] = toGo(item[1])
		}
		return dict
	}

	return v.String()
}

func toGoSlice(values []starlark.Value) []any {
	slice := make([]any, len(values))
	for n, value := range values {
		slice[n] = toGo(value)
	}
	return slice
}

package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"go.starlark.net/syntax"
)

func prettyOf(v any) string {
	return fmt.Sprintf("%# v", pretty.Formatter(v))
}

func runScript(t *testing.T, ctx context.Context, src string) (output string, err error) {
	m, buf := newTestMachine(t, true)

	s := &Script{Filename: "test.star", Source: []byte(src)}
	err = m.Run(ctx, s.App(ctx))

	output = buf.String()
	return
}

func TestScript_Hello(t *testing.T) {
	assert := assert.New(t)

	s, err := LoadScript("testdata/hello.star")
	assert.NoError(err)

	m, output := newTestMachine(t, true)
	err = m.Run(context.Background(), s.App(context.Background()))
	assert.NoError(err)

	expected := strings.Join([]string{
		"I/O initialized with IsViewer64",
		"",
		"Now that `stdout` has been configured...",
		"These macros work about how you expect!",
		"",
		"Supports formatting: 0xffff",
		"[testdata/hello.star:15] WHITE = " + prettyOf(int64(0xffff)),
		"",
		"Panic also works :)",
		"Returning from main will panic and halt... Let's do that now!",
		"",
		"Application: panicked at ",
	}, "\n")

	text := output.String()
	assert.True(strings.HasPrefix(text, expected), text)
	assert.True(strings.HasSuffix(text, ":\nmain cannot return\n"), text)
}

func TestScript_Print(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		src      string
		expected string
	}){
		{`io_init(); print("a", 1, True)`, "a 1 True\n"},
		{`io_init(); eprint("x", "y"); eprint("z")`, "x yz"},
		{`io_init(); eprintln("x", [1, "y"], sep=",")`, "x,[1, \"y\"]\n"},
		{`print("before"); io_init(); eprintln()`, "\n"},
	}

	for _, entry := range table {
		output, err := runScript(t, context.Background(), entry.src)
		assert.NoError(err, entry.src)
		assert.True(strings.HasPrefix(output, entry.expected+"Application: "), "%q: %q", entry.src, output)
	}
}

func TestScript_Dbg(t *testing.T) {
	assert := assert.New(t)

	src := strings.Join([]string{
		`io_init()`,
		`x = dbg(1 + 2)`,
		`dbg()`,
		`a, b = dbg(x, "s")`,
		`print(x, a, b)`,
		`dbg([x, None])`,
	}, "\n")

	output, err := runScript(t, context.Background(), src)
	assert.NoError(err)

	expected := strings.Join([]string{
		"[test.star:2] 1 + 2 = " + prettyOf(int64(3)),
		"[test.star:3]",
		"[test.star:4] x = " + prettyOf(int64(3)),
		"[test.star:4] \"s\" = " + prettyOf("s"),
		"3 3 s",
		"[test.star:6] [x, None] = " + prettyOf([]any{int64(3), nil}),
		"Application: ",
	}, "\n")
	assert.True(strings.HasPrefix(output, expected), output)
}

func TestScript_Panic(t *testing.T) {
	assert := assert.New(t)

	src := "io_init()\n\npanic(\"bad\", \"news\")\nprint(\"unreachable\")\n"

	output, err := runScript(t, context.Background(), src)

	var perr *ErrPanic
	if assert.True(errors.As(err, &perr)) {
		assert.Equal("test.star", perr.Info.File)
		assert.Equal(3, perr.Info.Line)
	}
	var serr *ErrScript
	assert.True(errors.As(err, &serr))
	assert.Equal("Application: panicked at test.star:3:\nbad news\n", output)
}

func TestScript_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		src    string
		lineNo int
	}){
		{"io_init()\nx = [][1]\n", 2},
		{"io_init()\n\nundefined_name()\n", 3},
		{"io_init()\nx = )\n", 2},
		{"io_init(1)\n", 1},
	}

	for _, entry := range table {
		_, err := runScript(t, context.Background(), entry.src)

		var serr *ErrScript
		if assert.True(errors.As(err, &serr), entry.src) {
			assert.Equal("test.star", serr.File, entry.src)
			assert.Equal(entry.lineNo, serr.LineNo, entry.src)
		}
	}
}

func TestScript_Cancel(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := runScript(t, ctx, "io_init()\nwhile True:\n    pass\n")

	var serr *ErrScript
	if assert.True(errors.As(err, &serr)) {
		assert.Contains(serr.Error(), "cancel")
	}
}

func posAt(line, col int32) syntax.Position {
	file := "s.star"
	return syntax.MakePosition(&file, line, col)
}

func TestSourceText(t *testing.T) {
	assert := assert.New(t)

	src := "y = 1\nz = dbg(y, \"é\", [\n  1,\n])\nw = f(dbg(y * 2))\n"
	st := newSourceText("s.star", []byte(src))

	table := [](struct {
		line, col int32
		expected  []string
	}){
		{2, 8, []string{"y", "\"é\"", "[\n  1,\n]"}},
		{2, 1, []string{"y", "\"é\"", "[\n  1,\n]"}},
		{5, 10, []string{"y * 2"}},
		{5, 1, []string{"y * 2"}},
		{1, 1, nil},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, st.callArgs(posAt(entry.line, entry.col)), "%d:%d", entry.line, entry.col)
	}

	broken := newSourceText("b.star", []byte("dbg(\n"))
	assert.Nil(broken.callArgs(posAt(1, 4)))
}

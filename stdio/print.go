package stdio

import (
	"bytes"
	"fmt"
	"io"
)

// emit formats into a scratch buffer under the lock and delivers the whole
// message with one Write. Sink errors are dropped: output is best effort.
func emit(s *Slot, format func(buf *bytes.Buffer)) {
	s.WithLock(func(w io.Writer) {
		var buf bytes.Buffer
		format(&buf)
		_, _ = w.Write(buf.Bytes())
	})
}

// Print formats its operands as fmt.Print does and writes them to Stdout.
func Print(a ...any) {
	emit(Stdout, func(buf *bytes.Buffer) { fmt.Fprint(buf, a...) })
}

// Printf formats according to format and writes to Stdout.
func Printf(format string, a ...any) {
	emit(Stdout, func(buf *bytes.Buffer) { fmt.Fprintf(buf, format, a...) })
}

// Println formats its operands as fmt.Println does and writes them to Stdout.
func Println(a ...any) {
	emit(Stdout, func(buf *bytes.Buffer) { fmt.Fprintln(buf, a...) })
}

// Eprint is Print to Stderr.
func Eprint(a ...any) {
	emit(Stderr, func(buf *bytes.Buffer) { fmt.Fprint(buf, a...) })
}

// Eprintf is Printf to Stderr.
func Eprintf(format string, a ...any) {
	emit(Stderr, func(buf *bytes.Buffer) { fmt.Fprintf(buf, format, a...) })
}

// Eprintln is Println to Stderr.
func Eprintln(a ...any) {
	emit(Stderr, func(buf *bytes.Buffer) { fmt.Fprintln(buf, a...) })
}

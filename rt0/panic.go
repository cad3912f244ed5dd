// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package rt0

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/ezrec/rt0/stdio"
)

// PanicInfo describes a panic caught by the start shim.
type PanicInfo struct {
	Value any    // Value passed to panic.
	File  string // Source file of the panic, empty if unknown.
	Line  int
}

func (info PanicInfo) String() string {
	file := info.File
	if len(file) == 0 {
		file = "<unknown>"
	}

	return fmt.Sprintf("panicked at %s:%d:\n%v", file, info.Line, info.Value)
}

// Locator is implemented by panic values that know where they were raised,
// such as errors from an interpreted program.
type Locator interface {
	Location() (file string, line int)
}

// newPanicInfo locates the panic: the first frame outside the runtime
// below runtime.gopanic. It must be called from the deferred function that
// recovered value.
func newPanicInfo(value any) (info PanicInfo) {
	info.Value = value

	if locator, ok := value.(Locator); ok {
		info.File, info.Line = locator.Location()
		return
	}

	pc := make([]uintptr, 32)
	n := runtime.Callers(1, pc)
	frames := runtime.CallersFrames(pc[:n])

	panicking := false
	for {
		frame, more := frames.Next()
		switch {
		case frame.Function == "runtime.gopanic":
			panicking = true
		case panicking && !strings.HasPrefix(frame.Function, "runtime."):
			info.File = frame.File
			info.Line = frame.Line
			return
		}
		if !more {
			break
		}
	}

	return
}

// abort reports the panic on stderr, then halts. The report is skipped if
// stderr is locked; the panic may have happened while it was held.
func abort(info PanicInfo) {
	report(info)
	halt(info)
}

// report writes the panic report. A sink that panics loses the report,
// never the halt.
func report(info PanicInfo) {
	defer func() {
		_ = recover()
	}()

	stdio.Stderr.TryWithLock(func(w io.Writer) {
		io.WriteString(w, "Application: "+info.String()+"\n")
	})
}

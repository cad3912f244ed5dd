// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package rt0 is the start shim between the boot stub and the application.
//
// The application's main function never returns to the boot stub. If it
// does return, that is reported as a panic. Every panic is written to
// stdio.Stderr (when it can be done without waiting) and the console halts.
package rt0

// Terminator is the result of an application's main function.
type Terminator interface {
	// Report returns the exit code of the application.
	Report() int
}

// Unit is the result of a main function with nothing to report.
type Unit struct{}

func (Unit) Report() int { return 0 }

// ExitCode is a main function result that reports itself.
type ExitCode int

func (code ExitCode) Report() int { return int(code) }

// Start is the entry point the boot stub calls. argc and argv are always
// 0 and nil on the console and are ignored.
//
// Start runs main, then panics with ErrMainReturned. The panic handler
// reports and halts, so on the console Start does not return. If a host has
// replaced the halt routine with one that returns, Start returns the code
// main reported, or -1 if main panicked.
func Start[T Terminator](main func() T, argc int, argv **byte) (code int) {
	code = -1

	defer func() {
		if r := recover(); r != nil {
			abort(newPanicInfo(r))
		}
	}()

	code = main().Report()

	panic(ErrMainReturned)
}

// Main starts a main function without a result.
func Main(main func()) int {
	return Start(func() Unit {
		main()
		return Unit{}
	}, 0, nil)
}

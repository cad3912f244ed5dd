package rt0

import (
	"sync/atomic"
)

// HaltFunc stops the console after a panic.
type HaltFunc func(info PanicInfo)

var (
	haltMarker atomic.Uint32
	halt       HaltFunc = func(PanicInfo) { Halt() }
)

// Halt spins forever.
func Halt() {
	for {
		// The load keeps the loop from being optimized away.
		haltMarker.Load()
	}
}

// SetHalt replaces the routine called after a panic has been reported, and
// returns a function restoring the previous one. Hosts that run an
// application in a goroutine use it to stop that goroutine instead of
// spinning. It must not be called while an application is running.
func SetHalt(fn HaltFunc) (restore func()) {
	previous := halt
	halt = fn

	return func() {
		halt = previous
	}
}

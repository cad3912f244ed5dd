// Package spin provides a spinning mutual exclusion lock.
//
// The console has a single hardware thread, so a contended lock can only be
// held by code that an interrupt preempted. Spinning is the only option
// there; on a host it degrades to yielding the processor between attempts.
package spin

import (
	"runtime"
	"sync/atomic"
)

// Mutex is a spin lock. The zero value is unlocked.
type Mutex struct {
	state atomic.Uint32
}

// Lock acquires the lock, spinning until it is available.
func (m *Mutex) Lock() {
	for !m.state.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

// TryLock acquires the lock if it is free and reports whether it did.
func (m *Mutex) TryLock() bool {
	return m.state.CompareAndSwap(0, 1)
}

// Unlock releases the lock. Unlocking an unlocked Mutex panics.
func (m *Mutex) Unlock() {
	if !m.state.CompareAndSwap(1, 0) {
		panic("spin: unlock of unlocked mutex")
	}
}

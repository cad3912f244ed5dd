// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package stdio provides the runtime's standard output and standard error.
//
// Stdout and Stderr are slots that hold at most one sink, any io.Writer.
// Until a sink is installed, everything written through this package is
// silently discarded, so it is safe to print before I/O is initialized.
//
// Each slot is guarded by its own spin lock. Messages are formatted while
// the lock is held and handed to the sink in a single Write, so output from
// different contexts never interleaves within a message.
package stdio

import (
	"io"

	"github.com/ezrec/rt0/internal/spin"
)

// Slot holds the sink of one standard stream.
type Slot struct {
	mutex spin.Mutex
	sink  io.Writer
}

var (
	// Stdout is the sink of Print, Printf and Println.
	Stdout = &Slot{}
	// Stderr is the sink of Eprint, Eprintf, Eprintln and the Dbg family.
	Stderr = &Slot{}
)

// InstallOnce installs sink if the slot is empty. If a sink is already
// installed it is left in place and ErrAlreadyInstalled is returned.
func (s *Slot) InstallOnce(sink io.Writer) (err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.sink != nil {
		err = ErrAlreadyInstalled
		return
	}

	s.sink = sink

	return
}

// Install installs sink, replacing any existing one. The previous sink is
// abandoned as is; it is not flushed or closed. Prefer InstallOnce.
func (s *Slot) Install(sink io.Writer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sink = sink
}

// Installed reports whether the slot holds a sink.
func (s *Slot) Installed() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.sink != nil
}

// WithLock calls fn with the installed sink while holding the slot's lock.
// It does nothing when the slot is empty. fn must not use the same slot,
// directly or through the print functions, or it will deadlock.
func (s *Slot) WithLock(fn func(w io.Writer)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.sink != nil {
		fn(s.sink)
	}
}

// TryWithLock is WithLock without waiting: if the lock is held elsewhere it
// returns false without calling fn.
func (s *Slot) TryWithLock(fn func(w io.Writer)) bool {
	if !s.mutex.TryLock() {
		return false
	}
	defer s.mutex.Unlock()

	if s.sink != nil {
		fn(s.sink)
	}

	return true
}

// Null is a sink that accepts and discards everything.
type Null struct{}

func (Null) Write(p []byte) (int, error) {
	return len(p), nil
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

//go:build n64

package boot

import (
	"github.com/ezrec/rt0/mmio"
)

// Filesystem base LBA, set with the linker's -X flag.
var fsBase string

// Main hands the console to main. BSS was cleared by the assembly entry
// point, before the runtime put anything there, so it is not cleared again.
// Main does not return.
func Main(main func()) int {
	return Start(Target{}, Layout{FSBase: ParseFSBase(fsBase)}, main)
}

// Implemented in entry_n64_mips64.s.
func getStatus() uint32
func setStatus(status uint32)

// Target is the console itself.
type Target struct {
	mmio.Physical
}

var _ Machine = Target{}

// SetStackPointer does nothing: the assembly entry point has set the stack
// before any Go code runs.
func (Target) SetStackPointer(sp uintptr) {}

//go:nosplit
func (Target) Status() uint32 {
	return getStatus()
}

//go:nosplit
func (Target) SetStatus(status uint32) {
	setStatus(status)
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

//go:build n64

package mmio

import (
	emmio "embedded/mmio"
	"unsafe"
)

// Physical is the console's own bus. Addresses are the 32-bit KSEG
// addresses used throughout this module; the CPU runs in 64-bit mode, so
// they are sign-extended before use.
type Physical struct{}

var _ Window = Physical{}
var _ Syncer = Physical{}

func register(addr uintptr) *emmio.U32 {
	return (*emmio.U32)(unsafe.Pointer(uintptr(int32(uint32(addr)))))
}

//go:nosplit
func (Physical) Load32(addr uintptr) uint32 {
	return register(addr).Load()
}

//go:nosplit
func (Physical) Store32(addr uintptr, value uint32) {
	register(addr).Store(value)
}

// Sync is a no-op: KSEG1 is uncached and the R4300 keeps uncached stores
// in order.
//
//go:nosplit
func (Physical) Sync() {
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package mmio provides word-sized access to memory-mapped registers.
//
// All addresses are 32-bit physical (or KSEG) addresses carried in a
// uintptr, and every access is a naturally aligned 32-bit load or store.
// The console is big-endian: byte 0 of a word is its most significant lane.
//
// On the console (build tag n64) Physical performs volatile accesses to
// the real bus. Everywhere else, Memory and Bus model the same address
// space so the runtime can be exercised on a host.
package mmio

// Window is a region of the address space that supports aligned 32-bit
// volatile loads and stores.
type Window interface {
	Load32(addr uintptr) uint32
	Store32(addr uintptr, value uint32)
}

// Syncer is implemented by windows that need an explicit barrier to make
// previous stores visible to a device before later ones.
type Syncer interface {
	Sync()
}

// Sync issues the IO barrier of w, if it has one.
func Sync(w Window) {
	if s, ok := w.(Syncer); ok {
		s.Sync()
	}
}

// Load8 reads the byte at addr from its big-endian lane.
func Load8(w Window, addr uintptr) uint8 {
	shift := laneShift(addr)
	return uint8(w.Load32(addr&^3) >> shift)
}

// Store8 writes the byte at addr with a read-modify-write of its word.
func Store8(w Window, addr uintptr, value uint8) {
	shift := laneShift(addr)
	word := w.Load32(addr &^ 3)
	word &^= 0xff << shift
	word |= uint32(value) << shift
	w.Store32(addr&^3, word)
}

func laneShift(addr uintptr) uint {
	return uint(24 - 8*(addr&3))
}

func checkAligned(addr uintptr) {
	if addr&3 != 0 {
		panic(ErrUnaligned{Addr: addr})
	}
}

// OpenBus is a window with nothing behind it: loads return zero and
// stores are discarded.
type OpenBus struct{}

var _ Window = OpenBus{}

func (OpenBus) Load32(addr uintptr) uint32 {
	checkAligned(addr)
	return 0
}

func (OpenBus) Store32(addr uintptr, value uint32) {
	checkAligned(addr)
}

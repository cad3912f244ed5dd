// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package is64 drives the Intelligent Systems Viewer 64 (IS-Viewer 64),
// an in-circuit debugger that polls a buffer in the cartridge address
// space and prints whatever the console writes there.
//
// The register block lives in uncached cartridge space:
//
//	0xB3FF_0000  MAGIC       "IS64" once a host has claimed the device
//	0xB3FF_0004  READ_HEAD   byte offset consumed by the debugger
//	0xB3FF_0014  WRITE_HEAD  byte offset the console writes next
//	0xB3FF_0020  BUFFER      Capacity bytes of 32-bit big-endian words
//
// Every access is an aligned 32-bit volatile load or store.
package is64

import (
	"github.com/ezrec/rt0/mmio"
)

const (
	// Magic is "IS64" read as a big-endian word.
	Magic uint32 = 0x49533634

	// BaseAddr is the start of the register block.
	BaseAddr uintptr = 0xB3FF_0000

	MagicOffset     = 0x00
	ReadHeadOffset  = 0x04
	WriteHeadOffset = 0x14
	BufferOffset    = 0x20
)

const wordSize = 4

// Detect claims the debugger and reports whether it is present: it writes
// the magic word, clears both heads, and reads the magic word back. An
// absent device reads back open bus.
func Detect(bus mmio.Window) bool {
	return detectAt(bus, BaseAddr)
}

func detectAt(bus mmio.Window, base uintptr) bool {
	bus.Store32(base+MagicOffset, Magic)
	bus.Store32(base+ReadHeadOffset, 0)
	bus.Store32(base+WriteHeadOffset, 0)

	return bus.Load32(base+MagicOffset) == Magic
}

// Probe returns a Viewer for the debugger on bus, or nil if there is none.
func Probe(bus mmio.Window) *Viewer {
	if !Detect(bus) {
		return nil
	}

	return NewViewer(bus)
}

// Viewer writes to a detected IS-Viewer 64. It is an io.Writer; each Write
// is delivered whole or, when the debugger has not kept up, dropped whole.
type Viewer struct {
	Bus      mmio.Window
	Base     uintptr
	Capacity int // Buffer size in bytes, a multiple of 4.
}

// NewViewer returns a Viewer for the default register block on bus.
func NewViewer(bus mmio.Window) *Viewer {
	return &Viewer{
		Bus:      bus,
		Base:     BaseAddr,
		Capacity: BufferSize,
	}
}

// Write sends p to the debugger. It never fails: when the debugger is
// behind, p is dropped and still reported as written. len(p) must be less
// than the buffer capacity.
func (v *Viewer) Write(p []byte) (n int, err error) {
	if len(p) >= v.capacity() {
		panic(ErrMessageTooLong{Length: len(p), Capacity: v.capacity()})
	}

	v.print(p)

	return len(p), nil
}

// WriteString is Write of a string.
func (v *Viewer) WriteString(s string) (n int, err error) {
	return v.Write([]byte(s))
}

func (v *Viewer) capacity() int {
	if v.Capacity == 0 {
		return BufferSize
	}
	return v.Capacity
}

func (v *Viewer) bufferAddr(word int) uintptr {
	return v.Base + BufferOffset + uintptr(word)*wordSize
}

// combine merges value into the buffer word, keeping the bits in keep.
func (v *Viewer) combine(word int, keep uint32, value uint32) {
	addr := v.bufferAddr(word)
	v.Bus.Store32(addr, (v.Bus.Load32(addr)&keep)|value)
}

// pack packs up to four bytes big-endian, starting at the top lane.
func pack(chunk []byte) (value uint32) {
	for n, b := range chunk {
		value |= uint32(b) << (24 - 8*n)
	}
	return
}

// ReadRing copies n bytes of the buffer starting at byte offset, wrapping
// at capacity.
func ReadRing(bus mmio.Window, base uintptr, capacity int, offset int, n int) (data []byte) {
	data = make([]byte, n)
	for i := range data {
		at := (offset + i) % capacity
		data[i] = mmio.Load8(bus, base+BufferOffset+uintptr(at))
	}
	return
}

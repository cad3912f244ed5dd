// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package boot is the first code run after IPL3 hands over the console.
//
// Entry prepares the machine for Go code (stack, BSS, FPU, PIF), publishes
// the filesystem base and calls the start shim. On the console the
// assembly entry point sets the stack, clears BSS and enables the FPU
// before the Go runtime is initialized. The application's main then hands
// over to Main, which runs Entry with an empty BSS range so the remaining
// steps happen with the runtime up:
//
//	package main
//
//	import "github.com/ezrec/rt0/boot"
//
//	func main() {
//		boot.Main(func() {
//			...
//		})
//	}
//
// The filesystem base LBA is set at link time with
// -ldflags "-X github.com/ezrec/rt0/boot.fsBase=0x1000". The simulator
// takes it from its machine profile instead.
package boot

import (
	"strconv"

	"github.com/ezrec/rt0/mmio"
	"github.com/ezrec/rt0/rt0"
)

const (
	KSEG0 uintptr = 0x8000_0000 // Cached, direct mapped.
	KSEG1 uintptr = 0xA000_0000 // Uncached, direct mapped.

	MemSizeAddr    uintptr = KSEG0 | 0x0318 // RDRAM size, set by IPL3.
	FSBaseAddr     uintptr = KSEG0 | 0x031C // Filesystem base LBA.
	PIFControlAddr uintptr = 0xBFC0_07FC    // Last word of PIF RAM.

	PIFTerminateBoot uint32 = 0x8

	DefaultMemSize uintptr = 4 << 20
	MaxMemSize     uintptr = 8 << 20

	// StackFrame is the scratch space left above the initial stack pointer.
	StackFrame uintptr = 16
)

// COP0 status register bits.
const (
	StatusCU1 uint32 = 1 << 29 // Coprocessor 1 (FPU) usable.
	StatusFR  uint32 = 1 << 26 // 32 64-bit FPU registers.
)

// Machine is the CPU state and bus the boot stub works on.
type Machine interface {
	mmio.Window
	SetStackPointer(sp uintptr)
	Status() uint32
	SetStatus(status uint32)
}

// Layout locates the program's sections.
type Layout struct {
	BSSStart uintptr
	BSSEnd   uintptr
	FSBase   uint32 // Base LBA of the attached filesystem image, 0 for none.
}

// StartFunc is the start shim's entry point.
type StartFunc func(argc int, argv **byte) int

// MemSize returns the RDRAM size published by IPL3, or DefaultMemSize if
// IPL3 left something implausible there.
func MemSize(w mmio.Window) uintptr {
	size := uintptr(w.Load32(MemSizeAddr))
	if size == 0 || size > MaxMemSize || size&0xffff != 0 {
		return DefaultMemSize
	}

	return size
}

// StackTop is the initial stack pointer for a memory size.
func StackTop(memSize uintptr) uintptr {
	return KSEG0 + memSize - StackFrame
}

// ZeroBSS clears [start, end). Unaligned edges are cleared a byte at a
// time; an empty or inverted range is left alone.
func ZeroBSS(w mmio.Window, start, end uintptr) {
	addr := start

	for ; addr < end && addr&3 != 0; addr++ {
		mmio.Store8(w, addr, 0)
	}

	for ; addr+4 <= end; addr += 4 {
		w.Store32(addr, 0)
	}

	for ; addr < end; addr++ {
		mmio.Store8(w, addr, 0)
	}
}

// Entry runs the boot sequence, then calls start with no arguments and
// returns what it returns.
func Entry(m Machine, l Layout, start StartFunc) int {
	m.SetStackPointer(StackTop(MemSize(m)))

	ZeroBSS(m, l.BSSStart, l.BSSEnd)

	m.SetStatus(m.Status() | StatusCU1 | StatusFR)
	m.Store32(PIFControlAddr, PIFTerminateBoot)

	if l.FSBase != 0 {
		m.Store32(FSBaseAddr, l.FSBase)
	}

	return start(0, nil)
}

// Start runs Entry with the start shim calling main.
func Start(m Machine, l Layout, main func()) int {
	return Entry(m, l, func(argc int, argv **byte) int {
		return rt0.Main(main)
	})
}

// ParseFSBase parses a link-time filesystem base LBA. Anything that is not
// a 32-bit number, including the empty string, means no filesystem.
func ParseFSBase(text string) uint32 {
	lba, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return 0
	}

	return uint32(lba)
}

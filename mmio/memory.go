// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package mmio

import (
	"sync/atomic"
)

// Memory is host RAM standing in for a region of the console's address
// space. Words are accessed atomically, so a simulated device polling from
// another goroutine observes stores in program order.
type Memory struct {
	Base uintptr
	Size uintptr

	words []atomic.Uint32
}

var _ Window = (*Memory)(nil)
var _ Syncer = (*Memory)(nil)

// NewMemory creates a zeroed region of size bytes at base. size is
// rounded up to whole words.
func NewMemory(base uintptr, size uintptr) (mem *Memory) {
	checkAligned(base)

	words := (size + 3) / 4
	mem = &Memory{
		Base:  base,
		Size:  words * 4,
		words: make([]atomic.Uint32, words),
	}

	return
}

// Contains reports whether addr lies inside the region.
func (mem *Memory) Contains(addr uintptr) bool {
	return addr >= mem.Base && addr-mem.Base < mem.Size
}

func (mem *Memory) index(addr uintptr) int {
	checkAligned(addr)
	if !mem.Contains(addr) {
		panic(ErrOutOfRange{Addr: addr})
	}
	return int((addr - mem.Base) / 4)
}

// Load32 reads the word at addr.
func (mem *Memory) Load32(addr uintptr) uint32 {
	return mem.words[mem.index(addr)].Load()
}

// Store32 writes the word at addr.
func (mem *Memory) Store32(addr uintptr, value uint32) {
	mem.words[mem.index(addr)].Store(value)
}

// Sync is a no-op: atomic stores are already ordered.
func (mem *Memory) Sync() {
}

// Fill sets every word of the region to value.
func (mem *Memory) Fill(value uint32) {
	for n := range mem.words {
		mem.words[n].Store(value)
	}
}

// Words returns a snapshot of the region's contents.
func (mem *Memory) Words() (words []uint32) {
	words = make([]uint32, len(mem.words))
	for n := range mem.words {
		words[n] = mem.words[n].Load()
	}
	return
}

// Bytes returns a snapshot of the region as big-endian bytes.
func (mem *Memory) Bytes() (data []byte) {
	data = make([]byte, 0, mem.Size)
	for n := range mem.words {
		word := mem.words[n].Load()
		data = append(data, byte(word>>24), byte(word>>16), byte(word>>8), byte(word))
	}
	return
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package mmio

import (
	"slices"
	"sync"
)

// Region is a window mapped into a Bus.
type Region struct {
	Base   uintptr
	Size   uintptr
	Window Window
}

func (r Region) contains(addr uintptr) bool {
	return addr >= r.Base && addr-r.Base < r.Size
}

// Bus dispatches accesses to the region containing the address. Accesses
// that hit no region behave as an open bus: loads return zero and stores
// are discarded, which is how an absent device appears to software.
type Bus struct {
	mutex   sync.RWMutex
	regions []Region
}

var _ Window = (*Bus)(nil)
var _ Syncer = (*Bus)(nil)

// Map places w at [base, base+size).
func (bus *Bus) Map(base uintptr, size uintptr, w Window) (err error) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	for _, r := range bus.regions {
		if base < r.Base+r.Size && r.Base < base+size {
			err = ErrOverlap
			return
		}
	}

	bus.regions = append(bus.regions, Region{Base: base, Size: size, Window: w})
	slices.SortFunc(bus.regions, func(a, b Region) int {
		switch {
		case a.Base < b.Base:
			return -1
		case a.Base > b.Base:
			return 1
		}
		return 0
	})

	return
}

// MapMemory maps a new Memory at base and returns it.
func (bus *Bus) MapMemory(base uintptr, size uintptr) (mem *Memory, err error) {
	mem = NewMemory(base, size)
	err = bus.Map(base, mem.Size, mem)
	if err != nil {
		mem = nil
	}
	return
}

// Regions returns the current mappings ordered by base address.
func (bus *Bus) Regions() []Region {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()

	return slices.Clone(bus.regions)
}

func (bus *Bus) lookup(addr uintptr) (w Window, ok bool) {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()

	for _, r := range bus.regions {
		if r.contains(addr) {
			return r.Window, true
		}
	}
	return
}

func (bus *Bus) Load32(addr uintptr) uint32 {
	checkAligned(addr)
	w, ok := bus.lookup(addr)
	if !ok {
		return 0
	}
	return w.Load32(addr)
}

func (bus *Bus) Store32(addr uintptr, value uint32) {
	checkAligned(addr)
	w, ok := bus.lookup(addr)
	if !ok {
		return
	}
	w.Store32(addr, value)
}

// Sync forwards the barrier to every mapped window that has one.
func (bus *Bus) Sync() {
	for _, r := range bus.Regions() {
		Sync(r.Window)
	}
}

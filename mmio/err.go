package mmio

import (
	"errors"

	"github.com/ezrec/rt0/translate"
)

var f = translate.From

var (
	// ErrOverlap is returned when a mapping overlaps an existing region.
	ErrOverlap = errors.New(f("region overlaps existing mapping"))
)

// ErrUnaligned is the panic value of a misaligned word access.
type ErrUnaligned struct {
	Addr uintptr
}

func (err ErrUnaligned) Error() string {
	return f("unaligned word access at 0x%08x", uint64(err.Addr))
}

// ErrOutOfRange is the panic value of an access outside a Memory region.
type ErrOutOfRange struct {
	Addr uintptr
}

func (err ErrOutOfRange) Error() string {
	return f("access at 0x%08x outside of region", uint64(err.Addr))
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

//go:build is64compat

package is64

import (
	"github.com/ezrec/rt0/mmio"
)

// BufferSize is the mailbox size of the early protocol, in bytes.
const BufferSize = 0x1000 - BufferOffset

// LengthOffset is the "send length" register of the early protocol. It
// shares its address with WRITE_HEAD.
const LengthOffset = WriteHeadOffset

// print copies p to the start of the buffer and then posts its length.
// A message still waiting in the mailbox means the debugger is behind,
// and p is dropped.
func (v *Viewer) print(p []byte) {
	if v.Bus.Load32(v.Base+LengthOffset) != 0 {
		return
	}

	for i := 0; i < len(p); i += wordSize {
		chunk := p[i:min(i+wordSize, len(p))]
		if len(chunk) == wordSize {
			v.Bus.Store32(v.bufferAddr(i/wordSize), pack(chunk))
		} else {
			v.combine(i/wordSize, 0xffff_ffff>>(8*len(chunk)), pack(chunk))
		}
	}

	mmio.Sync(v.Bus)

	v.Bus.Store32(v.Base+LengthOffset, uint32(len(p)))
}

// poll takes the posted message and clears the length register.
func (d *Debugger) poll() (data []byte) {
	n := int(d.Bus.Load32(d.Base + LengthOffset))
	if n == 0 || n >= d.capacity() {
		return
	}

	data = ReadRing(d.Bus, d.Base, d.capacity(), 0, n)
	d.Bus.Store32(d.Base+LengthOffset, 0)

	return
}

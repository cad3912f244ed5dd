// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

//go:build !is64compat

package is64

import (
	"github.com/ezrec/rt0/mmio"
)

// BufferSize is the ring capacity of the current protocol, in bytes.
const BufferSize = 0x10000 - BufferOffset

// print enqueues p on the ring, or drops it if there is not enough room.
//
// The console owns WRITE_HEAD and the debugger owns READ_HEAD. READ_HEAD
// only moves forward, so a stale sample can only under-estimate the free
// space. WRITE_HEAD is advanced after every payload word is stored.
func (v *Viewer) print(p []byte) {
	capacity := v.capacity()
	words := capacity / wordSize

	read := int(v.Bus.Load32(v.Base+ReadHeadOffset)) % capacity
	write := int(v.Bus.Load32(v.Base+WriteHeadOffset)) % capacity

	free := read - write
	if free <= 0 {
		free += capacity
	}
	if free < len(p) {
		return
	}

	start := write % wordSize
	align := (wordSize - start) % wordSize
	lead := min(align, len(p))

	if lead > 0 {
		// Share a word with bytes already in the buffer.
		shift := (align - lead) * 8
		value := (pack(p[:lead]) >> (32 - 8*lead)) << shift
		keep := ^(uint32(1<<(8*lead)-1) << shift)
		v.combine(write/wordSize, keep, value)
		write += lead
	}

	rest := p[lead:]
	for i := 0; i < len(rest); i += wordSize {
		chunk := rest[i:min(i+wordSize, len(rest))]
		word := (write/wordSize + i/wordSize) % words
		if len(chunk) == wordSize {
			v.Bus.Store32(v.bufferAddr(word), pack(chunk))
		} else {
			v.combine(word, 0xffff_ffff>>(8*len(chunk)), pack(chunk))
		}
	}

	mmio.Sync(v.Bus)

	v.Bus.Store32(v.Base+WriteHeadOffset, uint32((write+len(rest))%capacity))
}

// poll takes everything between READ_HEAD and WRITE_HEAD, then hands the
// space back by advancing READ_HEAD.
func (d *Debugger) poll() (data []byte) {
	capacity := d.capacity()

	read := int(d.Bus.Load32(d.Base+ReadHeadOffset)) % capacity
	write := int(d.Bus.Load32(d.Base+WriteHeadOffset)) % capacity
	if read == write {
		return
	}

	n := write - read
	if n < 0 {
		n += capacity
	}

	data = ReadRing(d.Bus, d.Base, capacity, read, n)
	d.Bus.Store32(d.Base+ReadHeadOffset, uint32(write))

	return
}

//go:build !is64compat

package is64

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rt0/mmio"
)

// newRing maps a register block with a buffer of capacity bytes.
func newRing(capacity int) (mem *mmio.Memory, v *Viewer) {
	mem = mmio.NewMemory(BaseAddr, BufferOffset+uintptr(capacity))
	v = &Viewer{Bus: mem, Base: BaseAddr, Capacity: capacity}
	return
}

func buffer(mem *mmio.Memory) []uint32 {
	return mem.Words()[BufferOffset/wordSize:]
}

func heads(mem *mmio.Memory, read, write uint32) {
	mem.Store32(BaseAddr+ReadHeadOffset, read)
	mem.Store32(BaseAddr+WriteHeadOffset, write)
}

func writeHead(mem *mmio.Memory) uint32 {
	return mem.Load32(BaseAddr + WriteHeadOffset)
}

func TestViewer_AlignedWord(t *testing.T) {
	assert := assert.New(t)

	mem, v := newRing(BufferSize)

	n, err := v.WriteString("ABCD")
	assert.NoError(err)
	assert.Equal(4, n)
	assert.Equal(uint32(0x41424344), buffer(mem)[0])
	assert.Equal(uint32(4), writeHead(mem))
}

func TestViewer_AlignedPartialTail(t *testing.T) {
	assert := assert.New(t)

	mem, v := newRing(BufferSize)
	mem.Store32(BaseAddr+BufferOffset, 0xeeeeeeee)

	v.WriteString("ABC")
	assert.Equal(uint32(0x414243ee), buffer(mem)[0])
	assert.Equal(uint32(3), writeHead(mem))
}

func TestViewer_UnalignedHead(t *testing.T) {
	assert := assert.New(t)

	mem, v := newRing(BufferSize)
	mem.Store32(BaseAddr+BufferOffset, 0xffffffff)
	heads(mem, 0, 1)

	v.WriteString("XY")
	assert.Equal(uint32(0xff5859ff), buffer(mem)[0])
	assert.Equal(uint32(3), writeHead(mem))
}

func TestViewer_HeadMerges(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		Write uint32
		Text  string
		Word0 uint32
		Word1 uint32
		Head  uint32
	}{
		{1, "a", 0xff61ffff, 0xffffffff, 2},
		{1, "abc", 0xff616263, 0xffffffff, 4},
		{1, "abcd", 0xff616263, 0x64ffffff, 5},
		{2, "a", 0xffff61ff, 0xffffffff, 3},
		{2, "ab", 0xffff6162, 0xffffffff, 4},
		{3, "a", 0xffffff61, 0xffffffff, 4},
		{3, "abcdef", 0xffffff61, 0x62636465, 9},
		{0, "abcdef", 0x61626364, 0x6566ffff, 6},
		{0, "", 0xffffffff, 0xffffffff, 0},
		{2, "", 0xffffffff, 0xffffffff, 2},
	}

	for _, tc := range table {
		mem, v := newRing(BufferSize)
		mem.Fill(0xffffffff)
		heads(mem, 0, tc.Write)

		v.WriteString(tc.Text)
		assert.Equal(tc.Word0, buffer(mem)[0], "%+v", tc)
		assert.Equal(tc.Word1, buffer(mem)[1], "%+v", tc)
		if tc.Head != 9 {
			assert.Equal(uint32(0xffffffff), buffer(mem)[2], "%+v", tc)
		}
		assert.Equal(tc.Head, writeHead(mem), "%+v", tc)
	}
}

func TestViewer_RingFullDrops(t *testing.T) {
	assert := assert.New(t)

	mem, v := newRing(8)
	mem.Store32(BaseAddr+BufferOffset, 0x01020304)
	mem.Store32(BaseAddr+BufferOffset+4, 0x05060708)
	heads(mem, 0, 4)

	before := mem.Words()
	n, err := v.WriteString("12345")
	assert.NoError(err)
	assert.Equal(5, n)
	assert.Empty(cmp.Diff(before, mem.Words()))
}

func TestViewer_WrapExactFit(t *testing.T) {
	assert := assert.New(t)

	mem, v := newRing(8)
	mem.Fill(0x2e2e2e2e)
	heads(mem, 0, 6)

	v.WriteString("AB")
	assert.Equal([]byte("AB"), ReadRing(mem, BaseAddr, 8, 6, 2))
	assert.Equal(uint32(0x2e2e4142), buffer(mem)[1])
	assert.Equal(uint32(0), writeHead(mem))
}

func TestViewer_WrapSplit(t *testing.T) {
	assert := assert.New(t)

	mem, v := newRing(8)
	mem.Fill(0x2e2e2e2e)
	heads(mem, 3, 5)

	v.WriteString("wxyz")
	assert.Equal([]byte("wxyz"), ReadRing(mem, BaseAddr, 8, 5, 4))
	assert.Equal([]uint32{0x7a2e2e2e, 0x2e777879}, buffer(mem))
	assert.Equal(uint32(1), writeHead(mem))
}

func TestViewer_FreeSpace(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		Read, Write uint32
		Length      int
		Fits        bool
	}{
		{0, 0, 7, true}, // empty ring
		{4, 4, 7, true},
		{0, 4, 4, true},
		{0, 4, 5, false},
		{5, 1, 4, true},
		{5, 1, 5, false},
		{2, 1, 1, true},
		{2, 1, 2, false},
	}

	for _, tc := range table {
		mem, v := newRing(8)
		heads(mem, tc.Read, tc.Write)

		v.Write([]byte(strings.Repeat("x", tc.Length)))

		want := tc.Write
		if tc.Fits {
			want = (tc.Write + uint32(tc.Length)) % 8
		}
		assert.Equal(want, writeHead(mem), "%+v", tc)
	}
}

func TestViewer_TooLong(t *testing.T) {
	assert := assert.New(t)

	_, v := newRing(8)
	assert.PanicsWithValue(ErrMessageTooLong{Length: 8, Capacity: 8}, func() {
		v.WriteString("12345678")
	})

	_, v = newRing(BufferSize)
	assert.Panics(func() {
		v.Write(make([]byte, BufferSize))
	})
	assert.NotPanics(func() {
		v.Write(make([]byte, BufferSize-1))
	})
}

func TestViewer_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		"",
		"H",
		"Hi",
		"Hi!",
		"Hello",
		"I/O initialized with IsViewer64\n",
		strings.Repeat("0123456789abcdef", 100),
	}

	for _, text := range table {
		mem, v := newRing(BufferSize)
		v.WriteString(text)
		assert.Equal(text, string(mem.Bytes()[BufferOffset:BufferOffset+len(text)]))
		assert.Equal(text, string(ReadRing(mem, BaseAddr, BufferSize, 0, len(text))))
		assert.Equal(uint32(len(text)), writeHead(mem))
	}
}

func TestViewer_Sequence(t *testing.T) {
	assert := assert.New(t)

	mem, v := newRing(BufferSize)

	var all strings.Builder
	for _, text := range []string{"a", "bc", "def", "ghij", "klmno", "p"} {
		v.WriteString(text)
		all.WriteString(text)
	}

	assert.Equal(all.String(), string(ReadRing(mem, BaseAddr, BufferSize, 0, all.Len())))
	assert.Equal(uint32(all.Len()), writeHead(mem))
}

func FuzzViewer(f *testing.F) {
	const capacity = 64

	f.Add(uint8(0), uint8(0), []byte("ABCD"))
	f.Add(uint8(0), uint8(1), []byte("XY"))
	f.Add(uint8(0), uint8(62), []byte("AB"))
	f.Add(uint8(0), uint8(60), []byte("12345"))
	f.Add(uint8(10), uint8(7), []byte("wrap around"))

	f.Fuzz(func(t *testing.T, read uint8, write uint8, msg []byte) {
		if len(msg) >= capacity {
			t.Skip()
		}
		assert := assert.New(t)

		r := int(read) % capacity
		w := int(write) % capacity

		mem, v := newRing(capacity)
		for n := range capacity / wordSize {
			mem.Store32(BaseAddr+BufferOffset+uintptr(n*wordSize), 0xa5a5a5a5^uint32(n))
		}
		heads(mem, uint32(r), uint32(w))
		before := ReadRing(mem, BaseAddr, capacity, 0, capacity)

		v.Write(msg)

		after := ReadRing(mem, BaseAddr, capacity, 0, capacity)

		free := r - w
		if free <= 0 {
			free += capacity
		}
		if free < len(msg) {
			assert.Empty(cmp.Diff(before, after))
			assert.Equal(uint32(w), writeHead(mem))
			return
		}

		assert.Equal(uint32((w+len(msg))%capacity), writeHead(mem))
		for n := range capacity {
			offset := (n - w + capacity) % capacity
			if offset < len(msg) {
				assert.Equal(msg[offset], after[n], "offset %d", n)
			} else {
				assert.Equal(before[n], after[n], "offset %d", n)
			}
		}
		assert.Equal(uint32(r), mem.Load32(BaseAddr+ReadHeadOffset))
	})
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package is64

import (
	"context"
	"io"
	"time"

	"github.com/ezrec/rt0/mmio"
)

// Debugger is the far side of the IS-Viewer 64: it watches the buffer and
// copies what the console writes to Output. It stands in for the hardware
// when the console itself is simulated.
type Debugger struct {
	Bus      mmio.Window
	Base     uintptr
	Capacity int
	Output   io.Writer
}

// NewDebugger returns a Debugger for the default register block on bus.
func NewDebugger(bus mmio.Window, output io.Writer) *Debugger {
	return &Debugger{
		Bus:      bus,
		Base:     BaseAddr,
		Capacity: BufferSize,
		Output:   output,
	}
}

func (d *Debugger) capacity() int {
	if d.Capacity == 0 {
		return BufferSize
	}
	return d.Capacity
}

// Poll forwards any pending bytes to Output. Nothing is consumed until a
// host has claimed the device by writing the magic word.
func (d *Debugger) Poll() (n int, err error) {
	if d.Bus.Load32(d.Base+MagicOffset) != Magic {
		return
	}

	data := d.poll()
	if len(data) == 0 {
		return
	}

	return d.Output.Write(data)
}

// Run polls every interval until ctx is done, then drains once more.
func (d *Debugger) Run(ctx context.Context, every time.Duration) (err error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_, err = d.Poll()
			return
		case <-ticker.C:
			_, err = d.Poll()
			if err != nil {
				return
			}
		}
	}
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package sim runs console applications on the host.
//
// The simulated console is a bus with RDRAM, PIF RAM and, when the profile
// asks for one, an IS-Viewer 64. Applications are booted through the same
// boot stub and start shim as on the console, and the IS-Viewer 64 ring is
// drained to a host writer by its debugger model.
package sim

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/ezrec/rt0/boot"
	"github.com/ezrec/rt0/is64"
	"github.com/ezrec/rt0/mmio"
	"github.com/ezrec/rt0/rt0"
	"github.com/ezrec/rt0/stdio"
)

const (
	PIFRAMAddr uintptr = 0xBFC0_07C0
	PIFRAMSize uintptr = 0x40
	IS64Size   uintptr = 0x10000
)

// App is an application main function. It is handed the console bus.
type App func(bus mmio.Window)

// The start shim's halt routine and the standard streams are global, so
// only one application runs at a time.
var running sync.Mutex

// Machine state. CPU + bus + devices.
type Machine struct {
	Verbose bool // If set, enables verbose logging.
	Profile Profile

	*mmio.Bus
	RDRAM *mmio.Memory
	PIF   *mmio.Memory
	IS64  *mmio.Memory // nil when no IS-Viewer 64 is attached.

	// Output receives everything the application writes to the IS-Viewer 64.
	Output io.Writer

	sp     uintptr
	status uint32
}

var _ boot.Machine = &Machine{}

// NewMachine builds the console described by p.
func NewMachine(p Profile) (m *Machine, err error) {
	err = p.Validate()
	if err != nil {
		return
	}

	m = &Machine{
		Verbose: p.Verbose,
		Profile: p,
		Bus:     &mmio.Bus{},
		Output:  io.Discard,
	}

	m.RDRAM, err = m.Bus.MapMemory(boot.KSEG0, uintptr(p.MemorySize))
	if err != nil {
		return
	}

	m.PIF, err = m.Bus.MapMemory(PIFRAMAddr, PIFRAMSize)
	if err != nil {
		return
	}

	if p.IS64 {
		m.IS64, err = m.Bus.MapMemory(is64.BaseAddr, IS64Size)
		if err != nil {
			return
		}
	}

	m.Reset()

	return
}

// Reset puts the machine in the state IPL3 leaves it in.
func (m *Machine) Reset() {
	m.RDRAM.Fill(0)
	m.PIF.Fill(0)
	if m.IS64 != nil {
		m.IS64.Fill(0)
	}

	m.RDRAM.Store32(boot.MemSizeAddr, m.Profile.MemorySize)

	m.sp = 0
	m.status = 0
}

func (m *Machine) SetStackPointer(sp uintptr) {
	m.sp = sp
}

// StackPointer returns the stack pointer set by the boot stub.
func (m *Machine) StackPointer() uintptr {
	return m.sp
}

func (m *Machine) Status() uint32 {
	return m.status
}

func (m *Machine) SetStatus(status uint32) {
	m.status = status
}

// Layout returns the program layout from the profile.
func (m *Machine) Layout() boot.Layout {
	return boot.Layout{
		BSSStart: uintptr(m.Profile.BSSStart),
		BSSEnd:   uintptr(m.Profile.BSSEnd),
		FSBase:   m.Profile.FSBase,
	}
}

// Run resets the machine, boots app and returns when it halts.
//
// Returning from app is how a console application ends, and Run returns
// nil for it. Any other panic is returned as *ErrPanic. Output still in
// the IS-Viewer 64 ring when the application halts is drained to Output
// before Run returns.
func (m *Machine) Run(ctx context.Context, app App) (err error) {
	running.Lock()
	defer running.Unlock()

	m.Reset()

	// Power cycle the console: its slots start out empty. Applications
	// never empty a slot; only the simulator does, between runs.
	stdio.Stdout.Install(nil)
	stdio.Stderr.Install(nil)

	var halted *rt0.PanicInfo
	defer rt0.SetHalt(func(info rt0.PanicInfo) {
		halted = &info
	})()

	var wg sync.WaitGroup
	if m.IS64 != nil {
		debugger := is64.NewDebugger(m.Bus, m.Output)
		// Keep polling after ctx ends, until the application halts.
		pollCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := debugger.Run(pollCtx, m.Profile.PollInterval)
			if err != nil && m.Verbose {
				log.Printf("sim: is64: %v", err)
			}
		}()
		defer func() {
			stop()
			wg.Wait()
		}()
	}

	code := boot.Start(m, m.Layout(), func() {
		if m.Verbose {
			log.Printf("sim: boot sp=%#x status=%#x", m.sp, m.status)
		}
		app(m.Bus)
	})

	if m.Verbose {
		log.Printf("sim: halted, code %d", code)
	}

	if halted == nil {
		err = ErrHalted
		return
	}

	if value, ok := halted.Value.(error); ok && errors.Is(value, rt0.ErrMainReturned) {
		return
	}

	err = &ErrPanic{Info: *halted}

	return
}

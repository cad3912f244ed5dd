// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package console selects the debug output transport of the console and
// installs it as the runtime's standard output and standard error.
package console

import (
	"io"

	"github.com/ezrec/rt0/is64"
	"github.com/ezrec/rt0/mmio"
	"github.com/ezrec/rt0/stdio"
)

//go:generate go tool stringer -linecomment -type=Backend

// Backend identifies the transport chosen by Init.
type Backend int

const (
	BackendNone       Backend = iota // None
	BackendIsViewer64                // IsViewer64
)

// Transport is a debug output transport that Init can probe for.
type Transport struct {
	Backend Backend
	// Probe returns a sink for the transport, or nil if it is absent.
	Probe func(bus mmio.Window) io.Writer
}

// Transports lists the transports in the order Init tries them.
var Transports = []Transport{
	{Backend: BackendIsViewer64, Probe: probeIsViewer64},
}

func probeIsViewer64(bus mmio.Window) io.Writer {
	if v := is64.Probe(bus); v != nil {
		return v
	}
	return nil
}

// Init probes the transports in order and installs the first one present
// as both stdio.Stdout and stdio.Stderr; the hardware has no separate error
// channel. It replaces whatever sinks were installed before. If nothing is
// found the slots are left as they were and BackendNone is returned.
func Init(bus mmio.Window) Backend {
	for _, t := range Transports {
		sink := t.Probe(bus)
		if sink == nil {
			continue
		}

		stdio.Stdout.Install(sink)
		stdio.Stderr.Install(sink)

		return t.Backend
	}

	return BackendNone
}

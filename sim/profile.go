// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sim

import (
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/rt0/boot"
)

// Profile describes the simulated console.
type Profile struct {
	MemorySize   uint32        `toml:"memory_size"`   // RDRAM size published to the boot stub.
	IS64         bool          `toml:"is64"`          // IS-Viewer 64 present.
	FSBase       uint32        `toml:"fs_base"`       // Filesystem base LBA, 0 for none.
	BSSStart     uint32        `toml:"bss_start"`     // Program BSS, in KSEG0.
	BSSEnd       uint32        `toml:"bss_end"`       //
	PollInterval time.Duration `toml:"poll_interval"` // IS64 debugger poll interval.
	Verbose      bool          `toml:"verbose"`
}

// DefaultProfile is a stock 4 MiB console with an IS-Viewer 64 attached.
func DefaultProfile() Profile {
	return Profile{
		MemorySize:   uint32(boot.DefaultMemSize),
		IS64:         true,
		BSSStart:     0x8010_0000,
		BSSEnd:       0x8010_4000,
		PollInterval: time.Millisecond,
	}
}

// LoadProfile decodes a TOML profile. Keys that are not present keep their
// DefaultProfile values.
func LoadProfile(r io.Reader) (p Profile, err error) {
	p = DefaultProfile()

	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		err = &ErrProfile{Err: err}
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		err = &ErrProfile{Err: ErrProfileKey(undecoded[0].String())}
		return
	}

	err = p.Validate()

	return
}

// LoadProfileFile decodes the TOML profile at path.
func LoadProfileFile(path string) (p Profile, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return LoadProfile(inf)
}

// Validate checks that the profile describes a console that can boot.
func (p Profile) Validate() error {
	size := uintptr(p.MemorySize)
	if size == 0 || size > boot.MaxMemSize || size&0xffff != 0 {
		return &ErrProfile{Err: ErrMemorySize(p.MemorySize)}
	}

	start, end := uintptr(p.BSSStart), uintptr(p.BSSEnd)
	if start > end || start < boot.KSEG0 || end > boot.KSEG0+size {
		return &ErrProfile{Err: ErrBSS{Start: p.BSSStart, End: p.BSSEnd}}
	}

	if p.PollInterval <= 0 {
		return &ErrProfile{Err: ErrPollInterval(p.PollInterval)}
	}

	return nil
}

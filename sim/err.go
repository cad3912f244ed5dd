package sim

import (
	"errors"
	"time"

	"github.com/ezrec/rt0/rt0"
	"github.com/ezrec/rt0/translate"
)

var f = translate.From

var (
	ErrHalted = errors.New(f("application halted"))
)

// ErrProfile wraps a problem with a machine profile.
type ErrProfile struct {
	Err error
}

func (err *ErrProfile) Error() string {
	return f("profile: %v", err.Err)
}

func (err *ErrProfile) Unwrap() error {
	return err.Err
}

type ErrProfileKey string

func (err ErrProfileKey) Error() string {
	return f("unknown key %q", string(err))
}

type ErrMemorySize uint32

func (err ErrMemorySize) Error() string {
	return f("unsupported memory size %#x", uint32(err))
}

type ErrBSS struct {
	Start, End uint32
}

func (err ErrBSS) Error() string {
	return f("bss [%#x, %#x) is outside of RDRAM", err.Start, err.End)
}

type ErrPollInterval time.Duration

func (err ErrPollInterval) Error() string {
	return f("poll interval %v must be positive", time.Duration(err))
}

// ErrPanic reports the panic that halted the application.
type ErrPanic struct {
	Info rt0.PanicInfo
}

func (err *ErrPanic) Error() string {
	return f("%v", err.Info.String())
}

func (err *ErrPanic) Unwrap() []error {
	errs := []error{ErrHalted}
	if inner, ok := err.Info.Value.(error); ok {
		errs = append(errs, inner)
	}
	return errs
}

// ErrScript is an error raised by, or while loading, a script. It carries
// its script location so the console reports the script line.
type ErrScript struct {
	File   string
	LineNo int
	Err    error
}

func (err *ErrScript) Error() string {
	return f("%v", err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}

func (err *ErrScript) Location() (string, int) {
	return err.File, err.LineNo
}

package stdio

import (
	"errors"

	"github.com/ezrec/rt0/translate"
)

var f = translate.From

var (
	// ErrAlreadyInstalled is returned by InstallOnce on an occupied slot.
	ErrAlreadyInstalled = errors.New(f("sink already installed"))
)

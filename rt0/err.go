package rt0

import (
	"errors"

	"github.com/ezrec/rt0/translate"
)

var f = translate.From

var (
	// ErrMainReturned is the panic value when the main function returns.
	ErrMainReturned = errors.New(f("main cannot return"))
)

package is64

import (
	"github.com/ezrec/rt0/translate"
)

var f = translate.From

// ErrMessageTooLong is the panic value of a Write that can never fit in
// the buffer.
type ErrMessageTooLong struct {
	Length   int
	Capacity int
}

func (err ErrMessageTooLong) Error() string {
	return f("message of %d bytes does not fit a %d byte buffer", err.Length, err.Capacity)
}

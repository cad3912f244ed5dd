package stdio

import (
	"bytes"
)

func (s *Slot) reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sink = nil
}

// capture installs fresh buffers into both standard slots.
func capture() (stdout, stderr *bytes.Buffer) {
	Stdout.reset()
	Stderr.reset()

	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	Stdout.Install(stdout)
	Stderr.Install(stderr)

	return
}

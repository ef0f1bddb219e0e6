package spooler

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupported = errors.New("print spooler is not available on this platform")
	ErrNoJob       = errors.New("spooler did not assign a job")
)

// OpError records the spooler call that failed and the device it targeted.
// Err is the platform error; on Windows it is a syscall.Errno.
type OpError struct {
	Op     string
	Device string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Device, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

package device

import (
	"errors"
	"fmt"
)

var (
	// ErrDevice matches every error returned by this package.
	ErrDevice = errors.New("device error")

	// ErrOutOfMemory is returned when an allocation exceeds the device budget.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrInvalidLaunch is returned for launch configurations the device rejects.
	ErrInvalidLaunch = errors.New("invalid launch configuration")
	// ErrKernelFault is returned when a kernel panics.
	ErrKernelFault = errors.New("kernel fault")
	// ErrFreed is returned when a buffer is used or freed after release.
	ErrFreed = errors.New("buffer already freed")
	// ErrSizeMismatch is returned when copy source and destination differ in length.
	ErrSizeMismatch = errors.New("copy size mismatch")
	// ErrSessionClosed is returned when allocating from a closed session.
	ErrSessionClosed = errors.New("session closed")
)

// Error describes a failed device operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("device: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDevice) succeed for any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrDevice
}

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Op: op, Err: err}
}

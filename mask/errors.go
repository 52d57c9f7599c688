package mask

import (
	"errors"
	"fmt"
)

// ErrFormat matches every FormatError via errors.Is.
var ErrFormat = errors.New("mask: invalid format")

// FormatError reports a raw mask buffer whose length is not Size.
type FormatError struct {
	Length int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mask: expected %d bytes, got %d", Size, e.Length)
}

// Is makes errors.Is(err, ErrFormat) succeed for any FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func checkLength(raw []byte) error {
	if len(raw) != Size {
		return &FormatError{Length: len(raw)}
	}
	return nil
}

package slotmatch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/slotmatch/internal/device"
	"github.com/hupe1980/slotmatch/internal/engine"
	"github.com/hupe1980/slotmatch/mask"
)

var (
	// ErrFormat matches every FormatError.
	ErrFormat = mask.ErrFormat
	// ErrPartition matches every PartitionError.
	ErrPartition = engine.ErrPartition
	// ErrDevice matches every DeviceError.
	ErrDevice = device.ErrDevice
	// ErrConfiguration matches every ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrDuplicateEvent is returned when two events share an id.
	ErrDuplicateEvent = engine.ErrDuplicateEvent
)

// FormatError reports a mask whose encoded length is not 42 bytes.
type FormatError = mask.FormatError

// PartitionError reports an event count that the multicore strategy
// cannot split into equal pages.
type PartitionError = engine.PartitionError

// DeviceError reports a failed device operation: allocation, transfer,
// kernel launch or kernel execution.
//
// The original underlying error can be accessed via errors.Unwrap.
type DeviceError struct {
	Op    string
	cause error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s failed: %v", e.Op, e.cause)
}

func (e *DeviceError) Unwrap() error { return e.cause }

// ConfigurationError reports an invalid strategy name or option value.
//
// Cause, if set, is the underlying error.
type ConfigurationError struct {
	Option string
	Value  any
	Cause  error
}

func (e *ConfigurationError) Error() string {
	msg := "invalid " + e.Option
	if e.Value != nil {
		msg += fmt.Sprintf(" %v", e.Value)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var us *engine.UnknownStrategyError
	if errors.As(err, &us) {
		return &ConfigurationError{Option: "strategy", Value: us.Name, Cause: err}
	}
	if errors.Is(err, engine.ErrInvalidConfig) {
		return &ConfigurationError{Option: "matcher config", Cause: err}
	}

	var de *device.Error
	if errors.As(err, &de) {
		return &DeviceError{Op: de.Op, cause: err}
	}

	// FormatError and PartitionError are already public.
	return err
}

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStrategy is returned for unrecognised strategy names.
	ErrUnknownStrategy = errors.New("unknown strategy")
	// ErrInvalidConfig is returned for invalid matcher settings.
	ErrInvalidConfig = errors.New("invalid matcher configuration")
	// ErrPartition is returned when events cannot be split into equal pages.
	ErrPartition = errors.New("event count not divisible into pages")
	// ErrDuplicateEvent is returned when two events share an id.
	ErrDuplicateEvent = errors.New("duplicate event id")
	// ErrShortPage is returned when a page holds fewer events than counted.
	ErrShortPage = errors.New("page shorter than expected")
)

// UnknownStrategyError names a strategy that does not exist.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q", e.Name)
}

func (e *UnknownStrategyError) Is(target error) bool {
	return target == ErrUnknownStrategy
}

// PartitionError reports an event count that does not divide into pages.
type PartitionError struct {
	Events int
	Pages  int
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("%d events cannot be split into %d equal pages", e.Events, e.Pages)
}

func (e *PartitionError) Is(target error) bool {
	return target == ErrPartition
}

func duplicateEvent(id int64) error {
	return fmt.Errorf("%w: %d", ErrDuplicateEvent, id)
}

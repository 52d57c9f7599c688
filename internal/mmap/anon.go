package mmap

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrInvalidSize is returned for non-positive mapping sizes.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrClosed is returned when operating on a closed mapping.
	ErrClosed = errors.New("mmap: mapping closed")
	// ErrLockUnsupported is returned by Lock on platforms without mlock.
	ErrLockUnsupported = errors.New("mmap: locking not supported")
)

// Mapping is an anonymous read-write memory region.
type Mapping struct {
	data   []byte
	locked atomic.Bool
	closed atomic.Bool
	unmap  func([]byte) error
}

// MapAnon creates an anonymous mapping of size bytes.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmap, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Lock pins the mapping's pages in physical memory.
func (m *Mapping) Lock() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.locked.Load() {
		return nil
	}
	if err := osLock(m.data); err != nil {
		return err
	}
	m.locked.Store(true)
	return nil
}

// Locked reports whether the pages are pinned.
func (m *Mapping) Locked() bool {
	return m.locked.Load()
}

// Bytes returns the mapped memory.
// The slice is valid only until Close is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// Close unlocks and unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	var errs []error
	if m.locked.Load() {
		errs = append(errs, osUnlock(m.data))
	}
	if m.unmap != nil {
		errs = append(errs, m.unmap(m.data))
	}
	m.data = nil
	return errors.Join(errs...)
}

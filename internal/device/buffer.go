package device

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/slotmatch/internal/mem"
	"github.com/hupe1980/slotmatch/internal/mmap"
)

// Element is the set of types device buffers can hold.
type Element interface {
	~uint8 | ~int32 | ~uint32 | ~int64 | ~uint64
}

type releaser interface {
	release() error
	released() bool
}

// Buffer is a typed device allocation owned by a Session.
type Buffer[T Element] struct {
	sess  *Session
	data  []T
	bytes int64
	freed atomic.Bool
}

// Malloc allocates n zeroed elements of device memory.
func Malloc[T Element](s *Session, n int) (*Buffer[T], error) {
	if n < 0 {
		return nil, opError("malloc", fmt.Errorf("negative length %d", n))
	}
	var zero T
	bytes := int64(n) * int64(unsafe.Sizeof(zero))

	if err := s.checkOpen(); err != nil {
		return nil, opError("malloc", err)
	}
	if err := s.dev.ctrl.AcquireMemory(bytes); err != nil {
		return nil, opError("malloc", fmt.Errorf("%w: %d bytes requested, %d in use, limit %d",
			ErrOutOfMemory, bytes, s.dev.ctrl.MemoryUsage(), s.dev.ctrl.MemoryLimit()))
	}

	b := &Buffer[T]{
		sess:  s,
		data:  mem.AllocAlignedSlice[T](n),
		bytes: bytes,
	}
	s.dev.live.Add(1)
	s.track(b)
	return b, nil
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// Bytes returns the allocation size in bytes.
func (b *Buffer[T]) Bytes() int64 {
	return b.bytes
}

// Data returns the device memory. Only kernels may touch it, and only
// while the buffer is alive.
func (b *Buffer[T]) Data() []T {
	return b.data
}

// Free releases the buffer. Freeing twice returns ErrFreed.
func (b *Buffer[T]) Free() error {
	if err := b.release(); err != nil {
		return opError("free", err)
	}
	return nil
}

func (b *Buffer[T]) release() error {
	if b.freed.Swap(true) {
		return ErrFreed
	}
	b.sess.dev.ctrl.ReleaseMemory(b.bytes)
	b.sess.dev.live.Add(-1)
	b.data = nil
	return nil
}

func (b *Buffer[T]) released() bool {
	return b.freed.Load()
}

// HostBuffer is host staging memory, pinned when the OS allows it.
type HostBuffer struct {
	sess    *Session
	mapping *mmap.Mapping
	data    []byte
	pinned  bool
	freed   atomic.Bool
}

// HostAlloc allocates n bytes of page-locked host memory. If the process
// may not lock memory the buffer is still returned, unpinned.
func (s *Session) HostAlloc(n int) (*HostBuffer, error) {
	if err := s.checkOpen(); err != nil {
		return nil, opError("host alloc", err)
	}
	h := &HostBuffer{sess: s}
	if n > 0 {
		m, err := mmap.MapAnon(n)
		if err != nil {
			return nil, opError("host alloc", fmt.Errorf("%w: %w", ErrOutOfMemory, err))
		}
		if err := m.Lock(); err != nil {
			s.dev.logger.Debug("pinning unavailable, using pageable staging memory",
				"bytes", n, "error", err)
		} else {
			h.pinned = true
			s.dev.pinnedBytes.Add(int64(n))
		}
		h.mapping = m
		h.data = m.Bytes()
		s.dev.hostBytes.Add(int64(n))
	}
	s.dev.live.Add(1)
	s.track(h)
	return h, nil
}

// Bytes returns the staging memory.
func (h *HostBuffer) Bytes() []byte {
	return h.data
}

// Pinned reports whether the pages are locked.
func (h *HostBuffer) Pinned() bool {
	return h.pinned
}

// Free releases the buffer. Freeing twice returns ErrFreed.
func (h *HostBuffer) Free() error {
	if err := h.release(); err != nil {
		return opError("host free", err)
	}
	return nil
}

func (h *HostBuffer) release() error {
	if h.freed.Swap(true) {
		return ErrFreed
	}
	n := int64(len(h.data))
	h.sess.dev.hostBytes.Add(-n)
	if h.pinned {
		h.sess.dev.pinnedBytes.Add(-n)
	}
	h.sess.dev.live.Add(-1)
	h.data = nil
	if h.mapping != nil {
		return h.mapping.Close()
	}
	return nil
}

func (h *HostBuffer) released() bool {
	return h.freed.Load()
}

// CopyToDevice copies src into dst after all previously enqueued work on
// dst's session has finished.
func CopyToDevice[T Element](ctx context.Context, dst *Buffer[T], src []T) error {
	if len(src) != dst.Len() {
		return opError("copy h2d", fmt.Errorf("%w: src %d, dst %d", ErrSizeMismatch, len(src), dst.Len()))
	}
	if err := dst.sess.Synchronize(); err != nil {
		return err
	}
	if dst.released() {
		return opError("copy h2d", ErrFreed)
	}
	if err := dst.sess.dev.ctrl.AcquireTransfer(ctx, int(dst.bytes)); err != nil {
		return opError("copy h2d", err)
	}
	copy(dst.data, src)
	return nil
}

// CopyToHost copies src into dst after all previously enqueued work on
// src's session has finished.
func CopyToHost[T Element](ctx context.Context, dst []T, src *Buffer[T]) error {
	if len(dst) != src.Len() {
		return opError("copy d2h", fmt.Errorf("%w: src %d, dst %d", ErrSizeMismatch, src.Len(), len(dst)))
	}
	if err := src.sess.Synchronize(); err != nil {
		return err
	}
	if src.released() {
		return opError("copy d2h", ErrFreed)
	}
	if err := src.sess.dev.ctrl.AcquireTransfer(ctx, int(src.bytes)); err != nil {
		return opError("copy d2h", err)
	}
	copy(dst, src.data)
	return nil
}

// Memset enqueues filling b with v.
func Memset[T Element](b *Buffer[T], v T) error {
	if b.released() {
		return opError("memset", ErrFreed)
	}
	b.sess.enqueue("memset", func() error {
		for i := range b.data {
			b.data[i] = v
		}
		return nil
	})
	return nil
}

// AtomicAdd adds v to b[i] atomically and returns the new value.
// Kernels use it to accumulate across blocks.
func AtomicAdd(b *Buffer[int32], i int, v int32) int32 {
	return atomic.AddInt32(&b.data[i], v)
}

// releaseAll frees every tracked allocation that is still alive, newest first.
func releaseAll(rs []releaser) error {
	var errs []error
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].released() {
			continue
		}
		if err := rs[i].release(); err != nil && !errors.Is(err, ErrFreed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

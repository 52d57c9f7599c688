// Package mmap provides anonymous memory mappings that can be locked into RAM.
//
// Locked (mlock'ed) mappings are the host side of "pinned" staging buffers:
// the pages cannot be swapped out, so copies to the emulated device never
// fault on a paged-out source.
//
// # Usage
//
//	m, err := mmap.MapAnon(size)
//	if err != nil { ... }
//	defer m.Close()
//
//	if err := m.Lock(); err != nil {
//	    // RLIMIT_MEMLOCK too low; the mapping is still usable, just pageable
//	}
//	buf := m.Bytes()
//
// # Platform Support
//
//   - Unix: mmap(2) with MAP_ANON|MAP_PRIVATE, mlock(2)/munlock(2)
//   - Others: 64-byte aligned heap memory; Lock returns ErrLockUnsupported
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure
// no goroutine touches Bytes() after Close returns.
package mmap

//go:build !unix

package mmap

import "github.com/hupe1980/slotmatch/internal/mem"

func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	return mem.AllocAligned(size), nil, nil
}

func osLock([]byte) error {
	return ErrLockUnsupported
}

func osUnlock([]byte) error {
	return nil
}

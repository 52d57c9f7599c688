package mmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAnon_ReadWriteClose(t *testing.T) {
	m, err := MapAnon(4096)
	require.NoError(t, err)

	buf := m.Bytes()
	require.Len(t, buf, 4096)
	assert.Equal(t, 4096, m.Size())

	// Anonymous mappings start zeroed.
	for _, b := range buf {
		require.Zero(t, b)
	}

	buf[0] = 42
	buf[4095] = 7
	assert.Equal(t, byte(42), m.Bytes()[0])

	require.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())

	// Idempotent
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Lock(), ErrClosed)
}

func TestMapAnon_InvalidSize(t *testing.T) {
	_, err := MapAnon(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = MapAnon(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMapAnon_Lock(t *testing.T) {
	m, err := MapAnon(4096)
	require.NoError(t, err)
	defer m.Close()

	err = m.Lock()
	if err != nil {
		// RLIMIT_MEMLOCK may be 0 in containers; the mapping stays usable.
		assert.False(t, m.Locked())
		assert.False(t, errors.Is(err, ErrClosed))
		m.Bytes()[0] = 1
		return
	}
	assert.True(t, m.Locked())
	require.NoError(t, m.Lock())
}

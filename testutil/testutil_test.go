package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slotmatch/mask"
	"github.com/hupe1980/slotmatch/source"
)

func TestRNGIsDeterministic(t *testing.T) {
	a := NewRNG(4711).Masks(10)
	b := NewRNG(4711).Masks(10)
	assert.Equal(t, a, b)

	rng := NewRNG(4711)
	first := rng.Mask()
	rng.Reset()
	assert.Equal(t, first, rng.Mask())
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestRunMask(t *testing.T) {
	m := RunMask(5, 3)
	assert.Equal(t, []int{5, 6, 7}, m.Slots())
}

func TestDenseMask(t *testing.T) {
	rng := NewRNG(1)
	assert.True(t, rng.DenseMask(0).IsZero())
	assert.Equal(t, mask.Full(), rng.DenseMask(1))
}

func TestExactCounts(t *testing.T) {
	ds := &source.Dataset{
		Users: [][]byte{
			mask.FromSlots(1, 2, 3).Bytes(),
			mask.FromSlots(2).Bytes(),
		},
		Events: []source.Event{
			{ID: 1, Mask: mask.FromSlots(2).Bytes()},
			{ID: 2, Mask: mask.FromSlots(1, 3).Bytes()},
			{ID: 3, Mask: mask.FromSlots(4).Bytes()},
			{ID: 4, Mask: make([]byte, mask.Size)},
		},
	}
	assert.Equal(t, map[int64]int{1: 2, 2: 1, 3: 0, 4: 2}, ExactCounts(ds))
}

func TestDenseDataset(t *testing.T) {
	ds := NewRNG(2).DenseDataset(20, 30, 0.9)
	require.Len(t, ds.Users, 20)
	require.Len(t, ds.Events, 30)
}

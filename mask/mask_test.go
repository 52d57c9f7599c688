package mask

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLength(t *testing.T) {
	for _, n := range []int{0, 1, 41, 43, 84} {
		raw := make([]byte, n)

		_, err := Decode(raw)
		require.Error(t, err, "length %d", n)
		assert.True(t, errors.Is(err, ErrFormat))

		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, n, fe.Length)

		_, err = DecodeWords(raw)
		assert.ErrorIs(t, err, ErrFormat)
		_, err = DecodeLanes128(raw)
		assert.ErrorIs(t, err, ErrFormat)
		_, err = DecodeLanes256(raw)
		assert.ErrorIs(t, err, ErrFormat)
	}

	m, err := Decode(make([]byte, Size))
	require.NoError(t, err)
	assert.True(t, m.IsZero())
}

func TestDecodeCopies(t *testing.T) {
	raw := make([]byte, Size)
	raw[3] = 0xAB

	m, err := Decode(raw)
	require.NoError(t, err)
	raw[3] = 0

	assert.Equal(t, byte(0xAB), m[3])
}

func TestSlotOrdering(t *testing.T) {
	tests := []struct {
		slot int
		byte int
		bit  byte
	}{
		{slot: 0, byte: 0, bit: 0x01},
		{slot: 7, byte: 0, bit: 0x80},
		{slot: 8, byte: 1, bit: 0x01},
		{slot: 255, byte: 31, bit: 0x80},
		{slot: 335, byte: 41, bit: 0x80},
	}

	for _, tt := range tests {
		m := FromSlots(tt.slot)
		b := m.Bytes()
		assert.Equal(t, tt.bit, b[tt.byte], "slot %d", tt.slot)
		assert.Equal(t, 1, m.OnesCount())

		// Round trip through the wire encoding.
		back, err := Decode(b)
		require.NoError(t, err)
		assert.Equal(t, []int{tt.slot}, back.Slots())
		assert.True(t, back.Test(tt.slot))
	}
}

func TestSetClearBounds(t *testing.T) {
	m := FromSlots(-1, Bits, 10)
	assert.Equal(t, []int{10}, m.Slots())
	assert.False(t, m.Test(-1))
	assert.False(t, m.Test(Bits))

	m = m.Clear(10)
	assert.True(t, m.IsZero())

	full := Full()
	assert.Equal(t, Bits, full.OnesCount())
	assert.Len(t, full.Slots(), Bits)
}

func TestOr(t *testing.T) {
	a := FromSlots(1, 2)
	b := FromSlots(2, 300)
	assert.Equal(t, []int{1, 2, 300}, a.Or(b).Slots())
	// Receivers are values; a stays untouched.
	assert.Equal(t, []int{1, 2}, a.Slots())
}

func TestViewsRoundTrip(t *testing.T) {
	m := FromSlots(0, 63, 64, 200, 208, 215, 255, 256, 319, 320, 335)

	w := m.Words()
	assert.Equal(t, m, w.Mask())

	l128 := m.Lanes128()
	assert.Equal(t, m, l128.Mask())

	l256 := m.Lanes256()
	assert.Equal(t, m, l256.Mask())

	w2, err := DecodeWords(m.Bytes())
	require.NoError(t, err)
	assert.Equal(t, w, w2)
	assert.Equal(t, uint16(0x8001), w.Tail)
}

func TestString(t *testing.T) {
	m := FromSlots(0)
	s := m.String()
	assert.Len(t, s, Size*2)
	assert.Equal(t, "01", s[:2])
}

func TestMustDecodePanics(t *testing.T) {
	assert.Panics(t, func() { MustDecode([]byte{1}) })
	assert.NotPanics(t, func() { MustDecode(make([]byte, Size)) })
}

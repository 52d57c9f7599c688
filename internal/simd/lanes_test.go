package simd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naiveEqMask(a, b []byte) uint32 {
	var m uint32
	for i := range a {
		if a[i] == b[i] {
			m |= 1 << i
		}
	}
	return m
}

func TestZeroBytes(t *testing.T) {
	tests := []struct {
		name string
		x    uint64
		want uint8
	}{
		{name: "All zero", x: 0, want: 0xFF},
		{name: "All ones", x: ^uint64(0), want: 0x00},
		{name: "Low byte set", x: 0x01, want: 0xFE},
		{name: "High bit only", x: 0x8000000000000000, want: 0x7F},
		{name: "Alternating", x: 0x00FF00FF00FF00FF, want: 0xAA},
		{name: "0x80 bytes", x: 0x8080808080808080, want: 0x00},
		{name: "0x7f bytes", x: 0x7f007f007f007f00, want: 0x55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, zeroBytes(tt.x))
		})
	}
}

func TestCmpEqMask128(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := make([]byte, 16)
	b := make([]byte, 16)

	for i := 0; i < 1000; i++ {
		rng.Read(a)
		copy(b, a)
		// Perturb a random subset of bytes.
		flips := rng.Intn(4)
		for j := 0; j < flips; j++ {
			b[rng.Intn(16)] ^= byte(1 << rng.Intn(8))
		}

		got := Load128(a).CmpEqMask(Load128(b))
		require.Equal(t, uint16(naiveEqMask(a, b)), got)
		assert.Equal(t, got == AllOnes128, Load128(a).AllEqual(Load128(b)))
	}
}

func TestCmpEqMask256(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := make([]byte, 32)
	b := make([]byte, 32)

	for i := 0; i < 1000; i++ {
		rng.Read(a)
		copy(b, a)
		flips := rng.Intn(4)
		for j := 0; j < flips; j++ {
			b[rng.Intn(32)] ^= byte(1 << rng.Intn(8))
		}

		got := Load256(a).CmpEqMask(Load256(b))
		require.Equal(t, naiveEqMask(a, b), got)
		assert.Equal(t, got == AllOnes256, Load256(a).AllEqual(Load256(b)))
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	src := make([]byte, 32)
	for i := range src {
		src[i] = byte(i * 7)
	}

	dst128 := make([]byte, 16)
	Store128(dst128, Load128(src))
	assert.Equal(t, src[:16], dst128)

	dst256 := make([]byte, 32)
	Store256(dst256, Load256(src))
	assert.Equal(t, src, dst256)

	// Byte 0 lands in the low byte of the first word.
	assert.Equal(t, uint64(src[0]), Load128(src)[0]&0xFF)
}

func TestAnd(t *testing.T) {
	a := Vec128{0xFF00FF00FF00FF00, ^uint64(0)}
	b := Vec128{0x0F0F0F0F0F0F0F0F, 0}
	assert.Equal(t, Vec128{0x0F000F000F000F00, 0}, a.And(b))

	c := Vec256{1, 2, 3, 4}
	d := Vec256{^uint64(0), 0, 1, 4}
	assert.Equal(t, Vec256{1, 0, 1, 4}, c.And(d))
}

func TestParseISA(t *testing.T) {
	for _, isa := range []ISA{Generic, SSE2, NEON, AVX2} {
		got, ok := ParseISA(isa.String())
		require.True(t, ok)
		assert.Equal(t, isa, got)
	}

	got, ok := ParseISA(" AVX2 ")
	require.True(t, ok)
	assert.Equal(t, AVX2, got)

	_, ok = ParseISA("avx512")
	assert.False(t, ok)
	assert.Equal(t, "unknown", ISA(200).String())
}

func TestSelectISA(t *testing.T) {
	x86 := Features{SSE2: true, AVX2: true}
	arm := Features{NEON: true}

	tests := []struct {
		name       string
		features   Features
		override   string
		want       ISA
		overridden bool
	}{
		{"BestX86", x86, "", AVX2, false},
		{"BestARM", arm, "", NEON, false},
		{"NoVectorUnit", Features{}, "", Generic, false},
		{"SSEOnly", Features{SSE2: true}, "", SSE2, false},
		{"ForceGeneric", x86, "generic", Generic, true},
		{"ForceSSE2", x86, "sse2", SSE2, true},
		{"UnavailableOverride", arm, "avx2", NEON, false},
		{"UnknownOverride", x86, "mmx", AVX2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, overridden := selectISA(tt.features, tt.override)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.overridden, overridden)
		})
	}
}

func TestPreferredWidth(t *testing.T) {
	assert.Contains(t, []int{64, 128, 256}, PreferredWidth())
	assert.Equal(t, ActiveISA().Width(), PreferredWidth())
	assert.True(t, Detected().Has(ActiveISA()))
}

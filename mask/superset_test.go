package mask

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// supersetAll evaluates the predicate through every representation and
// fails the test if they disagree.
func supersetAll(t *testing.T, capability, requirement Mask) bool {
	t.Helper()

	byteWise := IsSuperset(&capability, &requirement)

	cw, rw := capability.Words(), requirement.Words()
	c128, r128 := capability.Lanes128(), requirement.Lanes128()
	c256, r256 := capability.Lanes256(), requirement.Lanes256()

	require.Equal(t, byteWise, cw.Superset(&rw), "words: cap=%s req=%s", capability, requirement)
	require.Equal(t, byteWise, c128.Superset(&r128), "lanes128: cap=%s req=%s", capability, requirement)
	require.Equal(t, byteWise, c256.Superset(&r256), "lanes256: cap=%s req=%s", capability, requirement)

	return byteWise
}

func randomMask(rng *rand.Rand, density float64) Mask {
	var m Mask
	for i := 0; i < Bits; i++ {
		if rng.Float64() < density {
			m = m.Set(i)
		}
	}
	return m
}

func TestSupersetConcrete(t *testing.T) {
	full := Full()
	zero := Mask{}
	bit0 := FromSlots(0)

	assert.True(t, supersetAll(t, full, bit0))
	assert.False(t, supersetAll(t, zero, bit0))
	assert.True(t, supersetAll(t, full, zero))
	assert.True(t, supersetAll(t, zero, zero))
	assert.True(t, supersetAll(t, full, full))
	assert.False(t, supersetAll(t, zero, full))
}

func TestSupersetReflexive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		m := randomMask(rng, rng.Float64())
		assert.True(t, supersetAll(t, m, m))
	}
}

func TestSupersetZeroAbsorption(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	zero := Mask{}
	for i := 0; i < 500; i++ {
		m := randomMask(rng, rng.Float64())
		assert.True(t, supersetAll(t, m, zero))
		if !m.IsZero() {
			assert.False(t, supersetAll(t, zero, m))
		}
	}
}

func TestSupersetMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 500; i++ {
		req := randomMask(rng, 0.05)
		capability := req.Or(randomMask(rng, 0.3))
		require.True(t, supersetAll(t, capability, req))

		grown := capability.Or(randomMask(rng, rng.Float64()))
		assert.True(t, supersetAll(t, grown, req))
	}
}

// Every single bit must be checked by every representation, including the
// bytes covered twice by the overlapping lanes and the 16-bit word tail.
func TestSupersetEveryBitCovered(t *testing.T) {
	full := Full()
	for slot := 0; slot < Bits; slot++ {
		missing := full.Clear(slot)
		req := FromSlots(slot)
		assert.False(t, supersetAll(t, missing, req), "slot %d", slot)
		assert.True(t, supersetAll(t, full, req), "slot %d", slot)
	}
}

func TestSupersetRandomAgreement(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	matches := 0
	for i := 0; i < 5000; i++ {
		req := randomMask(rng, 0.01)
		capability := randomMask(rng, 0.9)
		if supersetAll(t, capability, req) {
			matches++
		}
	}
	// Both outcomes must be exercised for the agreement check to mean anything.
	assert.Greater(t, matches, 0)
	assert.Less(t, matches, 5000)
}

func BenchmarkSuperset(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	capability := randomMask(rng, 0.9)
	req := FromSlots(100, 101, 102)

	b.Run("bytes", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			IsSuperset(&capability, &req)
		}
	})
	b.Run("words", func(b *testing.B) {
		c, r := capability.Words(), req.Words()
		for i := 0; i < b.N; i++ {
			c.Superset(&r)
		}
	})
	b.Run("lanes128", func(b *testing.B) {
		c, r := capability.Lanes128(), req.Lanes128()
		for i := 0; i < b.N; i++ {
			c.Superset(&r)
		}
	})
	b.Run("lanes256", func(b *testing.B) {
		c, r := capability.Lanes256(), req.Lanes256()
		for i := 0; i < b.N; i++ {
			c.Superset(&r)
		}
	})
}

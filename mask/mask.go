package mask

import (
	"encoding/hex"
	"math/bits"
)

const (
	// Bits is the number of slots in a mask (7 days * 48 half hours).
	Bits = 336
	// Size is the encoded size of a mask in bytes.
	Size = Bits / 8
)

// Mask is a 336-bit slot bitmask in wire layout.
type Mask [Size]byte

// Decode copies raw into a Mask. raw must be exactly Size bytes long.
func Decode(raw []byte) (Mask, error) {
	var m Mask
	if err := checkLength(raw); err != nil {
		return m, err
	}
	copy(m[:], raw)
	return m, nil
}

// MustDecode is like Decode but panics on a malformed buffer.
func MustDecode(raw []byte) Mask {
	m, err := Decode(raw)
	if err != nil {
		panic(err)
	}
	return m
}

// FromSlots returns a mask with the given slots set.
// Slots outside [0, Bits) are ignored.
func FromSlots(slots ...int) Mask {
	var m Mask
	for _, s := range slots {
		m = m.Set(s)
	}
	return m
}

// Full returns a mask with every slot set.
func Full() Mask {
	var m Mask
	for i := range m {
		m[i] = 0xFF
	}
	return m
}

// Set returns a copy of m with slot set.
func (m Mask) Set(slot int) Mask {
	if slot >= 0 && slot < Bits {
		m[slot>>3] |= 1 << (slot & 7)
	}
	return m
}

// Clear returns a copy of m with slot cleared.
func (m Mask) Clear(slot int) Mask {
	if slot >= 0 && slot < Bits {
		m[slot>>3] &^= 1 << (slot & 7)
	}
	return m
}

// Test reports whether slot is set.
func (m Mask) Test(slot int) bool {
	if slot < 0 || slot >= Bits {
		return false
	}
	return m[slot>>3]&(1<<(slot&7)) != 0
}

// Slots returns the set slots in ascending order.
func (m Mask) Slots() []int {
	out := make([]int, 0, m.OnesCount())
	for i, b := range m {
		for b != 0 {
			out = append(out, i<<3+bits.TrailingZeros8(b))
			b &= b - 1
		}
	}
	return out
}

// OnesCount returns the number of set slots.
func (m Mask) OnesCount() int {
	n := 0
	for _, b := range m {
		n += bits.OnesCount8(b)
	}
	return n
}

// IsZero reports whether no slot is set.
func (m Mask) IsZero() bool {
	return m == Mask{}
}

// Or returns m | other.
func (m Mask) Or(other Mask) Mask {
	for i := range m {
		m[i] |= other[i]
	}
	return m
}

// Bytes returns the wire encoding of m.
func (m Mask) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, m[:])
	return out
}

// String returns m as lowercase hex in wire order.
func (m Mask) String() string {
	return hex.EncodeToString(m[:])
}

// IsSuperset reports whether capability has every slot of requirement set.
// It compares one byte at a time.
func IsSuperset(capability, requirement *Mask) bool {
	for i := 0; i < Size; i++ {
		r := requirement[i]
		if capability[i]&r != r {
			return false
		}
	}
	return true
}

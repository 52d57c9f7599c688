package simd

import "encoding/binary"

// ==============================================================================
// Fixed-width lanes
// ==============================================================================
//
// Vec128 and Vec256 model vector registers as little-endian uint64 words.
// Byte i of the source buffer is byte i of the lane, so the per-byte
// compare masks below line up with what PCMPEQB/PMOVMSKB produce.

// Vec128 is a 128-bit lane.
type Vec128 [2]uint64

// Vec256 is a 256-bit lane.
type Vec256 [4]uint64

const (
	// AllOnes128 is the CmpEqMask result of two equal 128-bit lanes.
	AllOnes128 uint16 = 0xFFFF
	// AllOnes256 is the CmpEqMask result of two equal 256-bit lanes.
	AllOnes256 uint32 = 0xFFFFFFFF
)

// Load128 loads 16 bytes starting at b[0].
//
// SAFETY: Assumes len(b) >= 16.
func Load128(b []byte) Vec128 {
	_ = b[15]
	return Vec128{
		binary.LittleEndian.Uint64(b[0:8]),
		binary.LittleEndian.Uint64(b[8:16]),
	}
}

// Store128 writes the lane to b[0:16].
func Store128(b []byte, v Vec128) {
	_ = b[15]
	binary.LittleEndian.PutUint64(b[0:8], v[0])
	binary.LittleEndian.PutUint64(b[8:16], v[1])
}

// And returns a & b.
func (a Vec128) And(b Vec128) Vec128 {
	return Vec128{a[0] & b[0], a[1] & b[1]}
}

// CmpEqMask compares a and b byte-wise and returns one bit per byte,
// set where the bytes are equal.
func (a Vec128) CmpEqMask(b Vec128) uint16 {
	return uint16(zeroBytes(a[0]^b[0])) |
		uint16(zeroBytes(a[1]^b[1]))<<8
}

// AllEqual reports whether every byte of a equals the same byte of b.
func (a Vec128) AllEqual(b Vec128) bool {
	return a.CmpEqMask(b) == AllOnes128
}

// Load256 loads 32 bytes starting at b[0].
//
// SAFETY: Assumes len(b) >= 32.
func Load256(b []byte) Vec256 {
	_ = b[31]
	return Vec256{
		binary.LittleEndian.Uint64(b[0:8]),
		binary.LittleEndian.Uint64(b[8:16]),
		binary.LittleEndian.Uint64(b[16:24]),
		binary.LittleEndian.Uint64(b[24:32]),
	}
}

// Store256 writes the lane to b[0:32].
func Store256(b []byte, v Vec256) {
	_ = b[31]
	binary.LittleEndian.PutUint64(b[0:8], v[0])
	binary.LittleEndian.PutUint64(b[8:16], v[1])
	binary.LittleEndian.PutUint64(b[16:24], v[2])
	binary.LittleEndian.PutUint64(b[24:32], v[3])
}

// And returns a & b.
func (a Vec256) And(b Vec256) Vec256 {
	return Vec256{a[0] & b[0], a[1] & b[1], a[2] & b[2], a[3] & b[3]}
}

// CmpEqMask compares a and b byte-wise and returns one bit per byte,
// set where the bytes are equal.
func (a Vec256) CmpEqMask(b Vec256) uint32 {
	return uint32(zeroBytes(a[0]^b[0])) |
		uint32(zeroBytes(a[1]^b[1]))<<8 |
		uint32(zeroBytes(a[2]^b[2]))<<16 |
		uint32(zeroBytes(a[3]^b[3]))<<24
}

// AllEqual reports whether every byte of a equals the same byte of b.
func (a Vec256) AllEqual(b Vec256) bool {
	return a.CmpEqMask(b) == AllOnes256
}

const (
	low7  = 0x7f7f7f7f7f7f7f7f
	high1 = 0x8080808080808080
	// gather moves bit 8k of its multiplicand to bit 56+k.
	gather = 0x0102040810204080
)

// zeroBytes returns a byte whose bit k is set iff byte k of x is zero.
func zeroBytes(x uint64) uint8 {
	// High bit of each byte set iff that byte is non-zero. No carries
	// cross byte boundaries because (x&low7)+low7 <= 0xfe per byte.
	nz := ((x & low7) + low7) | x
	z := ^nz & high1
	return uint8(((z >> 7) * gather) >> 56)
}

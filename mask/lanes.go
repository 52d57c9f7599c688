package mask

import "github.com/hupe1980/slotmatch/internal/simd"

// Lane byte offsets. The last lane of each layout starts at Size-16 and
// overlaps the previous one.
const (
	lane128B = 16
	laneTail = Size - 16 // 26
)

// Lanes128 is the 128-bit view of a mask: lanes at bytes 0..15, 16..31
// and 26..41.
type Lanes128 struct {
	l [3]simd.Vec128
}

// DecodeLanes128 decodes raw directly into 128-bit lanes.
func DecodeLanes128(raw []byte) (Lanes128, error) {
	if err := checkLength(raw); err != nil {
		return Lanes128{}, err
	}
	return lanes128Of(raw), nil
}

// Lanes128 returns the 128-bit lane view of m.
func (m Mask) Lanes128() Lanes128 {
	return lanes128Of(m[:])
}

func lanes128Of(b []byte) Lanes128 {
	return Lanes128{l: [3]simd.Vec128{
		simd.Load128(b[0:]),
		simd.Load128(b[lane128B:]),
		simd.Load128(b[laneTail:]),
	}}
}

// Mask converts l back to the byte layout.
func (l *Lanes128) Mask() Mask {
	var m Mask
	simd.Store128(m[0:], l.l[0])
	simd.Store128(m[lane128B:], l.l[1])
	simd.Store128(m[laneTail:], l.l[2])
	return m
}

// Superset reports whether l has every bit of req set.
func (l *Lanes128) Superset(req *Lanes128) bool {
	return l.l[0].And(req.l[0]).AllEqual(req.l[0]) &&
		l.l[1].And(req.l[1]).AllEqual(req.l[1]) &&
		l.l[2].And(req.l[2]).AllEqual(req.l[2])
}

// Lanes256 is the 256-bit view of a mask: a 256-bit lane at bytes 0..31
// and a 128-bit lane at bytes 26..41.
type Lanes256 struct {
	head simd.Vec256
	tail simd.Vec128
}

// DecodeLanes256 decodes raw directly into a 256-bit lane and a tail lane.
func DecodeLanes256(raw []byte) (Lanes256, error) {
	if err := checkLength(raw); err != nil {
		return Lanes256{}, err
	}
	return lanes256Of(raw), nil
}

// Lanes256 returns the 256-bit lane view of m.
func (m Mask) Lanes256() Lanes256 {
	return lanes256Of(m[:])
}

func lanes256Of(b []byte) Lanes256 {
	return Lanes256{
		head: simd.Load256(b[0:]),
		tail: simd.Load128(b[laneTail:]),
	}
}

// Mask converts l back to the byte layout.
func (l *Lanes256) Mask() Mask {
	var m Mask
	simd.Store256(m[0:], l.head)
	simd.Store128(m[laneTail:], l.tail)
	return m
}

// Superset reports whether l has every bit of req set.
func (l *Lanes256) Superset(req *Lanes256) bool {
	return l.head.And(req.head).AllEqual(req.head) &&
		l.tail.And(req.tail).AllEqual(req.tail)
}

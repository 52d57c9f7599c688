package mask

import "encoding/binary"

const headWords = 5

// Words is the word-oriented view of a mask: bytes 0..39 as five
// little-endian uint64 values and bytes 40..41 as a uint16.
type Words struct {
	Head [headWords]uint64
	Tail uint16
}

// DecodeWords decodes raw directly into Words.
func DecodeWords(raw []byte) (Words, error) {
	if err := checkLength(raw); err != nil {
		return Words{}, err
	}
	return wordsOf(raw), nil
}

// Words returns the word view of m.
func (m Mask) Words() Words {
	return wordsOf(m[:])
}

func wordsOf(b []byte) Words {
	_ = b[Size-1]
	var w Words
	for i := range w.Head {
		w.Head[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	w.Tail = binary.LittleEndian.Uint16(b[headWords*8:])
	return w
}

// Mask converts w back to the byte layout.
func (w *Words) Mask() Mask {
	var m Mask
	for i, v := range w.Head {
		binary.LittleEndian.PutUint64(m[i*8:], v)
	}
	binary.LittleEndian.PutUint16(m[headWords*8:], w.Tail)
	return m
}

// Superset reports whether w has every bit of req set.
// The tail is checked first; it is the cheapest early exit.
func (w *Words) Superset(req *Words) bool {
	if w.Tail&req.Tail != req.Tail {
		return false
	}
	for i, r := range req.Head {
		if w.Head[i]&r != r {
			return false
		}
	}
	return true
}

package table

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind is the record type stored in a table.
type Kind uint8

const (
	// KindUsers holds capability masks.
	KindUsers Kind = 1
	// KindEvents holds requirement masks keyed by event id.
	KindEvents Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindUsers:
		return "users"
	case KindEvents:
		return "events"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

const (
	version = 1

	headerSize      = 16
	blockHeaderSize = 20
	trailerSize     = 24
	idSize          = 8

	// DefaultBlockRecords is the number of records per block.
	DefaultBlockRecords = 1024
)

var (
	magic        = [4]byte{'S', 'L', 'T', 'B'}
	trailerMagic = [4]byte{'B', 'T', 'L', 'S'}
)

var (
	// ErrCorrupt is returned for structurally invalid tables.
	ErrCorrupt = errors.New("table: corrupt")
	// ErrChecksum is returned when a block fails verification.
	ErrChecksum = errors.New("table: checksum mismatch")
	// ErrVersion is returned for tables written by a newer format.
	ErrVersion = errors.New("table: unsupported version")
	// ErrKind is returned when a table holds the wrong record kind.
	ErrKind = errors.New("table: wrong record kind")
	// ErrClosed is returned when writing to a closed writer.
	ErrClosed = errors.New("table: writer closed")
)

type header struct {
	kind         Kind
	compression  Compression
	maskSize     uint32
	blockRecords uint32
}

func (h header) recordSize() int {
	if h.kind == KindEvents {
		return idSize + int(h.maskSize)
	}
	return int(h.maskSize)
}

func (h header) encode() []byte {
	b := make([]byte, headerSize)
	copy(b[0:4], magic[:])
	binary.LittleEndian.PutUint16(b[4:], version)
	b[6] = byte(h.kind)
	b[7] = byte(h.compression)
	binary.LittleEndian.PutUint32(b[8:], h.maskSize)
	binary.LittleEndian.PutUint32(b[12:], h.blockRecords)
	return b
}

func decodeHeader(b []byte) (header, error) {
	if len(b) < headerSize || [4]byte(b[0:4]) != magic {
		return header{}, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if v := binary.LittleEndian.Uint16(b[4:]); v != version {
		return header{}, fmt.Errorf("%w: %d", ErrVersion, v)
	}
	h := header{
		kind:         Kind(b[6]),
		compression:  Compression(b[7]),
		maskSize:     binary.LittleEndian.Uint32(b[8:]),
		blockRecords: binary.LittleEndian.Uint32(b[12:]),
	}
	if h.kind != KindUsers && h.kind != KindEvents {
		return header{}, fmt.Errorf("%w: unknown kind %d", ErrCorrupt, h.kind)
	}
	if h.maskSize == 0 || h.blockRecords == 0 {
		return header{}, fmt.Errorf("%w: empty record or block size", ErrCorrupt)
	}
	return h, nil
}

type trailer struct {
	count       uint64
	indexOffset uint64
	blocks      uint32
}

func (t trailer) encode() []byte {
	b := make([]byte, trailerSize)
	binary.LittleEndian.PutUint64(b[0:], t.count)
	binary.LittleEndian.PutUint64(b[8:], t.indexOffset)
	binary.LittleEndian.PutUint32(b[16:], t.blocks)
	copy(b[20:24], trailerMagic[:])
	return b
}

func decodeTrailer(b []byte) (trailer, error) {
	if len(b) != trailerSize || [4]byte(b[20:24]) != trailerMagic {
		return trailer{}, fmt.Errorf("%w: bad trailer", ErrCorrupt)
	}
	return trailer{
		count:       binary.LittleEndian.Uint64(b[0:]),
		indexOffset: binary.LittleEndian.Uint64(b[8:]),
		blocks:      binary.LittleEndian.Uint32(b[16:]),
	}, nil
}

// Record is one table row. ID is zero for user tables.
type Record struct {
	ID   int64
	Mask []byte
}

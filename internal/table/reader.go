package table

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// ReaderAt is the random access a table needs from its storage.
// blobstore.Blob satisfies it.
type ReaderAt interface {
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	Size() int64
}

// Reader decodes records from a table.
type Reader struct {
	r     ReaderAt
	hdr   header
	count int64
	index []uint64 // block offsets, plus the index offset as sentinel
}

// Open reads the header, trailer and block index of a table.
func Open(ctx context.Context, r ReaderAt) (*Reader, error) {
	size := r.Size()
	if size < headerSize+trailerSize {
		return nil, fmt.Errorf("%w: %d bytes is too small", ErrCorrupt, size)
	}

	hb := make([]byte, headerSize)
	if err := readFull(ctx, r, hb, 0); err != nil {
		return nil, err
	}
	hdr, err := decodeHeader(hb)
	if err != nil {
		return nil, err
	}

	tb := make([]byte, trailerSize)
	if err := readFull(ctx, r, tb, size-trailerSize); err != nil {
		return nil, err
	}
	tr, err := decodeTrailer(tb)
	if err != nil {
		return nil, err
	}

	indexLen := int64(tr.blocks) * 8
	if tr.indexOffset < headerSize || int64(tr.indexOffset)+indexLen != size-trailerSize {
		return nil, fmt.Errorf("%w: index out of bounds", ErrCorrupt)
	}
	maxRecords := uint64(tr.blocks) * uint64(hdr.blockRecords)
	if tr.count > maxRecords || (tr.blocks > 0 && tr.count <= maxRecords-uint64(hdr.blockRecords)) {
		return nil, fmt.Errorf("%w: %d records in %d blocks", ErrCorrupt, tr.count, tr.blocks)
	}

	ib := make([]byte, indexLen)
	if err := readFull(ctx, r, ib, int64(tr.indexOffset)); err != nil {
		return nil, err
	}
	index := make([]uint64, tr.blocks+1)
	prev := uint64(headerSize)
	for i := range int(tr.blocks) {
		off := binary.LittleEndian.Uint64(ib[i*8:])
		if off < prev || off >= tr.indexOffset {
			return nil, fmt.Errorf("%w: block %d offset %d", ErrCorrupt, i, off)
		}
		index[i] = off
		prev = off
	}
	index[tr.blocks] = tr.indexOffset

	return &Reader{r: r, hdr: hdr, count: int64(tr.count), index: index}, nil
}

// Kind returns the record kind.
func (r *Reader) Kind() Kind { return r.hdr.kind }

// Count returns the number of records.
func (r *Reader) Count() int64 { return r.count }

// MaskSize returns the stored mask length in bytes.
func (r *Reader) MaskSize() int { return int(r.hdr.maskSize) }

// Compression returns the codec the table was written with.
func (r *Reader) Compression() Compression { return r.hdr.compression }

// ReadAll returns every record.
func (r *Reader) ReadAll(ctx context.Context) ([]Record, error) {
	return r.Read(ctx, 0, r.count)
}

// Read returns records [skip, skip+take), clamped to the table. Only the
// blocks overlapping the range are fetched and decoded.
func (r *Reader) Read(ctx context.Context, skip, take int64) ([]Record, error) {
	if skip < 0 || take < 0 {
		return nil, fmt.Errorf("table: invalid range skip=%d take=%d", skip, take)
	}
	end := min(skip+take, r.count)
	if skip >= end {
		return []Record{}, nil
	}

	per := int64(r.hdr.blockRecords)
	first, last := skip/per, (end-1)/per

	lo, hi := r.index[first], r.index[last+1]
	raw := make([]byte, hi-lo)
	if err := readFull(ctx, r.r, raw, int64(lo)); err != nil {
		return nil, err
	}

	recSize := r.hdr.recordSize()
	out := make([]Record, 0, end-skip)
	for b := first; b <= last; b++ {
		start := r.index[b] - lo
		stop := r.index[b+1] - lo
		data, err := r.decodeBlock(raw[start:stop], b)
		if err != nil {
			return nil, err
		}

		base := b * per
		n := int64(len(data) / recSize)
		from := max(skip-base, 0)
		to := min(end-base, n)
		for i := from; i < to; i++ {
			out = append(out, r.record(data[i*int64(recSize):(i+1)*int64(recSize)]))
		}
	}
	return out, nil
}

func (r *Reader) record(b []byte) Record {
	if r.hdr.kind == KindEvents {
		return Record{
			ID:   int64(binary.LittleEndian.Uint64(b)),
			Mask: b[idSize:],
		}
	}
	return Record{Mask: b}
}

func (r *Reader) decodeBlock(b []byte, n int64) ([]byte, error) {
	if len(b) < blockHeaderSize {
		return nil, fmt.Errorf("%w: block %d truncated", ErrCorrupt, n)
	}
	codec := Compression(b[0])
	rawLen := int(binary.LittleEndian.Uint32(b[4:]))
	storedLen := int(binary.LittleEndian.Uint32(b[8:]))
	sum := binary.LittleEndian.Uint64(b[12:])

	payload := b[blockHeaderSize:]
	if len(payload) != storedLen {
		return nil, fmt.Errorf("%w: block %d is %d bytes, header says %d", ErrCorrupt, n, len(payload), storedLen)
	}
	if xxhash.Sum64(payload) != sum {
		return nil, fmt.Errorf("%w: block %d", ErrChecksum, n)
	}
	if limit := int(r.hdr.blockRecords) * r.hdr.recordSize(); rawLen > limit {
		return nil, fmt.Errorf("%w: block %d claims %d bytes, limit %d", ErrCorrupt, n, rawLen, limit)
	}
	if rawLen%r.hdr.recordSize() != 0 {
		return nil, fmt.Errorf("%w: block %d holds a partial record", ErrCorrupt, n)
	}
	return decompress(payload, codec, rawLen)
}

func readFull(ctx context.Context, r ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(ctx, p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: short read at %d: %d of %d bytes", ErrCorrupt, off, n, len(p))
	}
	return fmt.Errorf("table: read at %d: %w", off, err)
}

package table

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/slotmatch/mask"
)

// WriterOptions configures a Writer.
type WriterOptions struct {
	Compression Compression
	// BlockRecords defaults to DefaultBlockRecords.
	BlockRecords int
	// MaskSize defaults to mask.Size.
	MaskSize int
}

// Writer streams records into a table.
type Writer struct {
	w      io.Writer
	hdr    header
	buf    []byte
	n      int // records in buf
	count  uint64
	pos    uint64 // bytes written so far
	index  []uint64
	err    error
	closed bool
}

// NewWriter writes the header to w and returns a writer for records of kind.
func NewWriter(w io.Writer, kind Kind, opts WriterOptions) (*Writer, error) {
	if opts.BlockRecords <= 0 {
		opts.BlockRecords = DefaultBlockRecords
	}
	if opts.MaskSize <= 0 {
		opts.MaskSize = mask.Size
	}
	if kind != KindUsers && kind != KindEvents {
		return nil, fmt.Errorf("table: unknown kind %d", kind)
	}

	tw := &Writer{
		w: w,
		hdr: header{
			kind:         kind,
			compression:  opts.Compression,
			maskSize:     uint32(opts.MaskSize),
			blockRecords: uint32(opts.BlockRecords),
		},
	}
	tw.buf = make([]byte, 0, tw.hdr.recordSize()*opts.BlockRecords)

	if err := tw.write(tw.hdr.encode()); err != nil {
		return nil, err
	}
	return tw, nil
}

// Append adds one record. Its mask must be exactly MaskSize bytes.
func (w *Writer) Append(rec Record) error {
	if w.closed {
		return ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	if len(rec.Mask) != int(w.hdr.maskSize) {
		return &mask.FormatError{Length: len(rec.Mask)}
	}

	if w.hdr.kind == KindEvents {
		w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(rec.ID))
	}
	w.buf = append(w.buf, rec.Mask...)
	w.n++
	w.count++

	if w.n == int(w.hdr.blockRecords) {
		return w.flush()
	}
	return nil
}

// Count returns the number of records appended so far.
func (w *Writer) Count() int64 {
	return int64(w.count)
}

func (w *Writer) flush() error {
	if w.n == 0 {
		return nil
	}

	payload, codec, err := compress(w.buf, w.hdr.compression)
	if err != nil {
		w.err = fmt.Errorf("table: compress block %d: %w", len(w.index), err)
		return w.err
	}

	bh := make([]byte, blockHeaderSize)
	bh[0] = byte(codec)
	binary.LittleEndian.PutUint32(bh[4:], uint32(len(w.buf)))
	binary.LittleEndian.PutUint32(bh[8:], uint32(len(payload)))
	binary.LittleEndian.PutUint64(bh[12:], xxhash.Sum64(payload))

	w.index = append(w.index, w.pos)
	if err := w.write(bh); err != nil {
		return err
	}
	if err := w.write(payload); err != nil {
		return err
	}

	w.buf = w.buf[:0]
	w.n = 0
	return nil
}

func (w *Writer) write(p []byte) error {
	if _, err := w.w.Write(p); err != nil {
		w.err = fmt.Errorf("table: write: %w", err)
		return w.err
	}
	w.pos += uint64(len(p))
	return nil
}

// Close flushes the last block and writes the index and trailer. It does
// not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.closed = true

	idx := make([]byte, 0, 8*len(w.index))
	for _, off := range w.index {
		idx = binary.LittleEndian.AppendUint64(idx, off)
	}
	t := trailer{
		count:       w.count,
		indexOffset: w.pos,
		blocks:      uint32(len(w.index)),
	}
	if err := w.write(idx); err != nil {
		return err
	}
	return w.write(t.encode())
}

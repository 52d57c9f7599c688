package slotmatch

import (
	"bufio"
	"encoding/binary"
	"io"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/hupe1980/slotmatch/internal/engine"
)

// Count is the number of users matching one event.
type Count = engine.Count

// Timings breaks down where a run spent its time.
type Timings = engine.Timings

// Result maps every input event id to the number of users covering it.
// Events nobody can attend are present with a count of zero.
type Result struct {
	Strategy Strategy
	Counts   map[int64]int
	Users    int
	Events   int
	Timings  Timings
}

// Sorted returns the counts ordered by event id.
func (r *Result) Sorted() []Count {
	return (*engine.Result)(r).Sorted()
}

// Total returns the sum of all counts.
func (r *Result) Total() int {
	return (*engine.Result)(r).Total()
}

// WriteReport writes one ".<id>:<count>" line per event in id order.
func (r *Result) WriteReport(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for _, c := range r.Sorted() {
		line = append(line[:0], '.')
		line = strconv.AppendInt(line, c.EventID, 10)
		line = append(line, ':')
		line = strconv.AppendInt(line, int64(c.Matches), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Digest hashes the (event id, count) pairs in id order. Runs that agree
// on every count have equal digests, whatever their strategy.
func (r *Result) Digest() uint64 {
	counts := r.Sorted()
	buf := make([]byte, 0, len(counts)*16)
	for _, c := range counts {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(c.EventID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(c.Matches))
	}
	return xxh3.Hash(buf)
}

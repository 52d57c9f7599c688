package engine

import (
	"cmp"
	"slices"
	"time"
)

// Count is the number of users matching one event.
type Count struct {
	EventID int64
	Matches int
}

// Timings breaks down where a run spent its time.
type Timings struct {
	// Load covers connecting and reading users and events.
	Load time.Duration
	// Match covers the matching itself, including any device transfers.
	Match time.Duration
	// Kernel is the device time of the GPU strategy.
	Kernel time.Duration
}

// Result maps every event id to its match count.
type Result struct {
	Strategy Strategy
	Counts   map[int64]int
	Users    int
	Events   int
	Timings  Timings
}

// Sorted returns the counts ordered by event id.
func (r *Result) Sorted() []Count {
	out := make([]Count, 0, len(r.Counts))
	for id, n := range r.Counts {
		out = append(out, Count{EventID: id, Matches: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		return cmp.Compare(a.EventID, b.EventID)
	})
	return out
}

// Total returns the sum of all counts.
func (r *Result) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

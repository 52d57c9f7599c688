package source

import (
	"math/rand"

	"github.com/hupe1980/slotmatch/mask"
)

// MaxEventSlots is the longest run of slots a generated event requires.
const MaxEventSlots = 6

// Generate creates a synthetic dataset. Users get uniformly random masks;
// each event requires a run of 1 to MaxEventSlots consecutive slots at a
// random start. Event ids are 1..events.
func Generate(rng *rand.Rand, users, events int) *Dataset {
	ds := &Dataset{
		Users:  make([][]byte, users),
		Events: make([]Event, events),
	}
	for i := range ds.Users {
		u := make([]byte, mask.Size)
		_, _ = rng.Read(u)
		ds.Users[i] = u
	}
	for i := range ds.Events {
		n := 1 + rng.Intn(MaxEventSlots)
		start := rng.Intn(mask.Bits - n + 1)
		var m mask.Mask
		for s := start; s < start+n; s++ {
			m = m.Set(s)
		}
		ds.Events[i] = Event{ID: int64(i + 1), Mask: m.Bytes()}
	}
	return ds
}

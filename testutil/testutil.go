package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/slotmatch/mask"
	"github.com/hupe1980/slotmatch/source"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Mask returns a uniformly random mask.
func (r *RNG) Mask() mask.Mask {
	r.mu.Lock()
	defer r.mu.Unlock()
	var m mask.Mask
	_, _ = r.rand.Read(m[:])
	return m
}

// DenseMask returns a mask where each slot is set with probability p.
func (r *RNG) DenseMask(p float64) mask.Mask {
	r.mu.Lock()
	defer r.mu.Unlock()
	var m mask.Mask
	for s := range mask.Bits {
		if r.rand.Float64() < p {
			m = m.Set(s)
		}
	}
	return m
}

// RunMask returns a mask with n consecutive slots starting at start.
func RunMask(start, n int) mask.Mask {
	var m mask.Mask
	for s := start; s < start+n; s++ {
		m = m.Set(s)
	}
	return m
}

// Masks returns n random masks in wire form.
func (r *RNG) Masks(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = r.Mask().Bytes()
	}
	return out
}

// Dataset generates users and events the way source.Generate does, from
// this RNG's stream.
func (r *RNG) Dataset(users, events int) *source.Dataset {
	r.mu.Lock()
	defer r.mu.Unlock()
	return source.Generate(r.rand, users, events)
}

// DenseDataset generates users that each offer a slot with probability p,
// so short events match often.
func (r *RNG) DenseDataset(users, events int, p float64) *source.Dataset {
	ds := r.Dataset(0, events)
	ds.Users = make([][]byte, users)
	for i := range ds.Users {
		ds.Users[i] = r.DenseMask(p).Bytes()
	}
	return ds
}

// ExactCounts is the reference result: a direct byte-wise superset test
// of every event against every user.
func ExactCounts(ds *source.Dataset) map[int64]int {
	users := make([]mask.Mask, len(ds.Users))
	for i, u := range ds.Users {
		users[i] = mask.MustDecode(u)
	}
	out := make(map[int64]int, len(ds.Events))
	for _, ev := range ds.Events {
		req := mask.MustDecode(ev.Mask)
		n := 0
		for i := range users {
			if mask.IsSuperset(&users[i], &req) {
				n++
			}
		}
		out[ev.ID] = n
	}
	return out
}

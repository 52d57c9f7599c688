package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/slotmatch/mask"
	"github.com/hupe1980/slotmatch/source"
)

// slotIndex holds, for every slot, the set of users offering it.
type slotIndex struct {
	users int
	slots [mask.Bits]*roaring.Bitmap
}

func buildSlotIndex(users []mask.Mask) *slotIndex {
	idx := &slotIndex{users: len(users)}
	for s := range idx.slots {
		idx.slots[s] = roaring.New()
	}
	for u, m := range users {
		for _, s := range m.Slots() {
			idx.slots[s].Add(uint32(u))
		}
	}
	for _, bm := range idx.slots {
		bm.RunOptimize()
	}
	return idx
}

// count returns the number of users offering every slot of req.
func (x *slotIndex) count(req mask.Mask) int {
	slots := req.Slots()
	switch len(slots) {
	case 0:
		return x.users
	case 1:
		return int(x.slots[slots[0]].GetCardinality())
	case 2:
		return int(x.slots[slots[0]].AndCardinality(x.slots[slots[1]]))
	}

	bms := make([]*roaring.Bitmap, len(slots))
	for i, s := range slots {
		bms[i] = x.slots[s]
	}
	return int(roaring.FastAnd(bms...).GetCardinality())
}

// indexedMatcher answers each event from a per-slot user index instead of
// scanning every user.
type indexedMatcher struct {
	logger *slog.Logger
}

func (m *indexedMatcher) Strategy() Strategy { return Indexed }

func (m *indexedMatcher) Match(ctx context.Context, src source.Source) (*Result, error) {
	start := time.Now()

	conn, rawUsers, err := load(ctx, src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	if uint64(len(rawUsers)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d users exceeds index capacity", ErrInvalidConfig, len(rawUsers))
	}
	users, err := decodeUsers(rawUsers, scalarCodec)
	if err != nil {
		return nil, err
	}
	events, err := conn.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	loaded := time.Now()

	idx := buildSlotIndex(users)

	counts := make(map[int64]int, len(events))
	for i, ev := range events {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		req, err := mask.Decode(ev.Mask)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.ID, err)
		}
		if _, dup := counts[ev.ID]; dup {
			return nil, duplicateEvent(ev.ID)
		}
		counts[ev.ID] = idx.count(req)
	}

	res := &Result{
		Strategy: Indexed,
		Counts:   counts,
		Users:    len(users),
		Events:   len(events),
		Timings: Timings{
			Load:  loaded.Sub(start),
			Match: time.Since(loaded),
		},
	}
	m.logger.DebugContext(ctx, "match finished",
		"users", res.Users, "events", res.Events,
		"load", res.Timings.Load, "match", res.Timings.Match)
	return res, nil
}

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hupe1980/slotmatch/mask"
	"github.com/hupe1980/slotmatch/source"
)

// codec pairs a mask representation with its superset test.
type codec[T any] struct {
	decode   func(raw []byte) (T, error)
	superset func(capability, requirement *T) bool
}

var (
	scalarCodec = codec[mask.Mask]{
		decode:   mask.Decode,
		superset: mask.IsSuperset,
	}
	word64Codec = codec[mask.Words]{
		decode:   mask.DecodeWords,
		superset: (*mask.Words).Superset,
	}
	simd128Codec = codec[mask.Lanes128]{
		decode:   mask.DecodeLanes128,
		superset: (*mask.Lanes128).Superset,
	}
	simd256Codec = codec[mask.Lanes256]{
		decode:   mask.DecodeLanes256,
		superset: (*mask.Lanes256).Superset,
	}
)

// ctxCheckInterval is how many events are matched between context checks.
const ctxCheckInterval = 256

func decodeUsers[T any](raw [][]byte, c codec[T]) ([]T, error) {
	out := make([]T, len(raw))
	for i, r := range raw {
		v, err := c.decode(r)
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// matchEvents counts, for each event, the users whose mask is a superset
// of the event's. counts must not already hold any of the event ids.
func matchEvents[T any](ctx context.Context, events []source.Event, users []T, c codec[T], counts map[int64]int) error {
	for i, ev := range events {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		req, err := c.decode(ev.Mask)
		if err != nil {
			return fmt.Errorf("event %d: %w", ev.ID, err)
		}
		if _, dup := counts[ev.ID]; dup {
			return duplicateEvent(ev.ID)
		}

		n := 0
		for j := range users {
			if c.superset(&users[j], &req) {
				n++
			}
		}
		counts[ev.ID] = n
	}
	return nil
}

// serialMatcher runs one representation on the calling goroutine.
type serialMatcher[T any] struct {
	strategy Strategy
	codec    codec[T]
	logger   *slog.Logger
}

func newSerial[T any](s Strategy, c codec[T], logger *slog.Logger) *serialMatcher[T] {
	return &serialMatcher[T]{strategy: s, codec: c, logger: logger}
}

func (m *serialMatcher[T]) Strategy() Strategy { return m.strategy }

func (m *serialMatcher[T]) Match(ctx context.Context, src source.Source) (*Result, error) {
	start := time.Now()

	conn, rawUsers, err := load(ctx, src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	users, err := decodeUsers(rawUsers, m.codec)
	if err != nil {
		return nil, err
	}
	events, err := conn.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	loaded := time.Now()

	counts := make(map[int64]int, len(events))
	if err := matchEvents(ctx, events, users, m.codec, counts); err != nil {
		return nil, err
	}

	res := &Result{
		Strategy: m.strategy,
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

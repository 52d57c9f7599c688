package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/slotmatch/mask"
	"github.com/hupe1980/slotmatch/source"
)

// multicoreMatcher splits the events into equal pages and matches each
// page on its own goroutine with its own connection.
type multicoreMatcher struct {
	pages   int
	workers int
	logger  *slog.Logger
}

func (m *multicoreMatcher) Strategy() Strategy { return Multicore }

// partition returns the page size, or a PartitionError when events do
// not divide evenly.
func partition(events, pages int) (int, error) {
	if pages <= 0 || events%pages != 0 {
		return 0, &PartitionError{Events: events, Pages: pages}
	}
	return events / pages, nil
}

func (m *multicoreMatcher) Match(ctx context.Context, src source.Source) (*Result, error) {
	start := time.Now()

	conn, rawUsers, err := load(ctx, src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	total, err := conn.CountEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	size, err := partition(total, m.pages)
	if err != nil {
		return nil, err
	}

	users, err := decodeUsers(rawUsers, simd256Codec)
	if err != nil {
		return nil, err
	}
	loaded := time.Now()

	partials := make([]map[int64]int, m.pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for p := range m.pages {
		g.Go(func() error {
			counts, err := m.matchPage(gctx, src, users, p, size)
			if err != nil {
				return fmt.Errorf("page %d: %w", p, err)
			}
			partials[p] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[int64]int, total)
	for _, part := range partials {
		for id, n := range part {
			if _, dup := counts[id]; dup {
				return nil, duplicateEvent(id)
			}
			counts[id] = n
		}
	}

	res := &Result{
		Strategy: Multicore,
		Counts:   counts,
		Users:    len(users),
		Events:   total,
		Timings: Timings{
			Load:  loaded.Sub(start),
			Match: time.Since(loaded),
		},
	}
	m.logger.DebugContext(ctx, "match finished",
		"users", res.Users, "events", res.Events, "pages", m.pages,
		"load", res.Timings.Load, "match", res.Timings.Match)
	return res, nil
}

func (m *multicoreMatcher) matchPage(ctx context.Context, src source.Source, users []mask.Lanes256, p, size int) (map[int64]int, error) {
	conn, err := src.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = conn.Close() }()

	events, err := conn.EventsPage(ctx, p*size, size)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	if len(events) != size {
		return nil, fmt.Errorf("%w: got %d events, want %d", ErrShortPage, len(events), size)
	}

	counts := make(map[int64]int, size)
	if err := matchEvents(ctx, events, users, simd256Codec, counts); err != nil {
		return nil, err
	}
	m.logger.DebugContext(ctx, "page finished", "page", p, "events", len(events))
	return counts, nil
}

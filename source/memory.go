package source

import (
	"context"
	"slices"
	"sync/atomic"
)

// Memory serves a Dataset from memory. It counts connections so tests can
// check how a strategy uses its source.
type Memory struct {
	users  [][]byte
	events []Event

	opened atomic.Int64
	open   atomic.Int64
}

var _ Source = (*Memory)(nil)

// NewMemory returns a source over the given users and events. Events are
// copied and sorted by id; masks are shared and must not be modified.
func NewMemory(users [][]byte, events []Event) *Memory {
	evs := slices.Clone(events)
	SortEvents(evs)
	return &Memory{users: users, events: evs}
}

// FromDataset is NewMemory(ds.Users, ds.Events).
func FromDataset(ds *Dataset) *Memory {
	return NewMemory(ds.Users, ds.Events)
}

// Connect opens a new connection.
func (m *Memory) Connect(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.opened.Add(1)
	m.open.Add(1)
	return &memoryConn{src: m}, nil
}

// Connections returns how many connections have been opened.
func (m *Memory) Connections() int64 {
	return m.opened.Load()
}

// OpenConnections returns how many connections are not yet closed.
func (m *Memory) OpenConnections() int64 {
	return m.open.Load()
}

type memoryConn struct {
	src    *Memory
	closed atomic.Bool
}

func (c *memoryConn) check(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

func (c *memoryConn) Users(ctx context.Context) ([][]byte, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	return c.src.users, nil
}

func (c *memoryConn) Events(ctx context.Context) ([]Event, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	return c.src.events, nil
}

func (c *memoryConn) EventsPage(ctx context.Context, skip, take int) ([]Event, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	return page(c.src.events, skip, take), nil
}

func (c *memoryConn) CountEvents(ctx context.Context) (int, error) {
	if err := c.check(ctx); err != nil {
		return 0, err
	}
	return len(c.src.events), nil
}

func (c *memoryConn) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.src.open.Add(-1)
	}
	return nil
}

package source

import (
	"cmp"
	"context"
	"errors"
	"slices"
)

var (
	// ErrClosed is returned when a closed connection is used.
	ErrClosed = errors.New("source: connection closed")
	// ErrUnordered is returned when stored events are not sorted by id.
	ErrUnordered = errors.New("source: events not ordered by id")
)

// Event is a requirement mask keyed by its id.
type Event struct {
	ID   int64
	Mask []byte
}

// Conn is a handle to the users and events of one dataset.
type Conn interface {
	// Users returns every user's capability mask.
	Users(ctx context.Context) ([][]byte, error)
	// Events returns every event ordered by ascending id.
	Events(ctx context.Context) ([]Event, error)
	// EventsPage returns events [skip, skip+take) of the id ordering.
	EventsPage(ctx context.Context, skip, take int) ([]Event, error)
	// CountEvents returns the number of events.
	CountEvents(ctx context.Context) (int, error)
	// Close releases the handle.
	Close() error
}

// Source opens connections to a dataset.
type Source interface {
	Connect(ctx context.Context) (Conn, error)
}

// Dataset is a complete set of users and events held in memory.
type Dataset struct {
	Users  [][]byte
	Events []Event
}

// SortEvents orders events by id, keeping the input order of equal ids.
func SortEvents(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

func page(events []Event, skip, take int) []Event {
	if skip < 0 {
		skip = 0
	}
	if take < 0 {
		take = 0
	}
	if skip >= len(events) {
		return []Event{}
	}
	end := min(skip+take, len(events))
	return events[skip:end]
}

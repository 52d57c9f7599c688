package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/hupe1980/slotmatch/blobstore"
	"github.com/hupe1980/slotmatch/internal/resource"
	"github.com/hupe1980/slotmatch/internal/table"
)

// Blob names of a stored dataset, relative to its prefix.
const (
	UsersBlob  = "users.tbl"
	EventsBlob = "events.tbl"
)

// Table reads a dataset stored as two mask tables in a blobstore.
type Table struct {
	store  blobstore.Store
	prefix string

	mu     sync.Mutex
	pinned bool
}

var _ Source = (*Table)(nil)

// NewTable returns a source reading <prefix>/users.tbl and
// <prefix>/events.tbl. An empty prefix is resolved through the CURRENT
// blob once, on the first Resolve or Connect, falling back to the store
// root. Every later connection reads the same dataset, even if another
// one is published meanwhile; use a new Table to pick it up.
func NewTable(store blobstore.Store, prefix string) *Table {
	return &Table{store: store, prefix: prefix}
}

// Resolve returns the dataset prefix every connection of t uses.
func (t *Table) Resolve(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pinned || t.prefix != "" {
		return t.prefix, nil
	}
	cur, err := blobstore.ReadCurrent(ctx, t.store)
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		cur = ""
	case err != nil:
		return "", fmt.Errorf("source: read %s: %w", blobstore.CurrentName, err)
	}
	t.prefix, t.pinned = strings.TrimSpace(cur), true
	return t.prefix, nil
}

// Connect opens both tables.
func (t *Table) Connect(ctx context.Context) (Conn, error) {
	prefix, err := t.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	c := &tableConn{}
	users, err := c.open(ctx, t.store, path.Join(prefix, UsersBlob), table.KindUsers)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}
	events, err := c.open(ctx, t.store, path.Join(prefix, EventsBlob), table.KindEvents)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}
	c.users, c.events = users, events
	return c, nil
}

type tableConn struct {
	blobs  []blobstore.Blob
	users  *table.Reader
	events *table.Reader
	closed bool
}

func (c *tableConn) open(ctx context.Context, store blobstore.Store, name string, kind table.Kind) (*table.Reader, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", name, err)
	}
	c.blobs = append(c.blobs, b)

	r, err := table.Open(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", name, err)
	}
	if r.Kind() != kind {
		return nil, fmt.Errorf("source: %s: %w: holds %s, want %s", name, table.ErrKind, r.Kind(), kind)
	}
	return r, nil
}

func (c *tableConn) Users(ctx context.Context) ([][]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}
	recs, err := c.users.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(recs))
	for i, r := range recs {
		out[i] = r.Mask
	}
	return out, nil
}

func (c *tableConn) Events(ctx context.Context) ([]Event, error) {
	if c.closed {
		return nil, ErrClosed
	}
	recs, err := c.events.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return toEvents(recs)
}

func (c *tableConn) EventsPage(ctx context.Context, skip, take int) ([]Event, error) {
	if c.closed {
		return nil, ErrClosed
	}
	recs, err := c.events.Read(ctx, int64(max(skip, 0)), int64(max(take, 0)))
	if err != nil {
		return nil, err
	}
	return toEvents(recs)
}

func (c *tableConn) CountEvents(_ context.Context) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	return int(c.events.Count()), nil
}

func (c *tableConn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var errs []error
	for _, b := range c.blobs {
		errs = append(errs, b.Close())
	}
	return errors.Join(errs...)
}

func toEvents(recs []table.Record) ([]Event, error) {
	out := make([]Event, len(recs))
	for i, r := range recs {
		if i > 0 && r.ID < out[i-1].ID {
			return nil, fmt.Errorf("%w: id %d after %d", ErrUnordered, r.ID, out[i-1].ID)
		}
		out[i] = Event{ID: r.ID, Mask: r.Mask}
	}
	return out, nil
}

// WriteOptions configures WriteDataset.
type WriteOptions struct {
	Compression  table.Compression
	BlockRecords int
	// BytesPerSec caps the write bandwidth to the store. 0 means unlimited.
	BytesPerSec int64
	// Publish points CURRENT at the new dataset once both tables are written.
	Publish bool
}

// WriteDataset stores ds under prefix. Events are written in id order.
func WriteDataset(ctx context.Context, store blobstore.Store, prefix string, ds *Dataset, opts WriteOptions) error {
	wopts := table.WriterOptions{Compression: opts.Compression, BlockRecords: opts.BlockRecords}
	var rc *resource.Controller
	if opts.BytesPerSec > 0 {
		rc = resource.NewController(resource.Config{TransferBytesPerSec: opts.BytesPerSec})
	}

	users := make([]table.Record, len(ds.Users))
	for i, u := range ds.Users {
		users[i] = table.Record{Mask: u}
	}
	if err := writeTable(ctx, store, path.Join(prefix, UsersBlob), table.KindUsers, users, wopts, rc); err != nil {
		return err
	}

	events := make([]Event, len(ds.Events))
	copy(events, ds.Events)
	SortEvents(events)
	recs := make([]table.Record, len(events))
	for i, e := range events {
		recs[i] = table.Record{ID: e.ID, Mask: e.Mask}
	}
	if err := writeTable(ctx, store, path.Join(prefix, EventsBlob), table.KindEvents, recs, wopts, rc); err != nil {
		return err
	}

	if opts.Publish {
		if err := store.Put(ctx, blobstore.CurrentName, []byte(prefix)); err != nil {
			return fmt.Errorf("source: publish %q: %w", prefix, err)
		}
	}
	return nil
}

func writeTable(ctx context.Context, store blobstore.Store, name string, kind table.Kind, recs []table.Record, opts table.WriterOptions, rc *resource.Controller) error {
	blob, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("source: create %s: %w", name, err)
	}

	var dst io.Writer = blob
	if rc != nil {
		dst = resource.NewRateLimitedWriter(ctx, blob, rc)
	}
	w, err := table.NewWriter(dst, kind, opts)
	if err != nil {
		_ = blob.Close()
		return fmt.Errorf("source: %s: %w", name, err)
	}
	for i, r := range recs {
		if err := w.Append(r); err != nil {
			_ = blob.Close()
			return fmt.Errorf("source: %s record %d: %w", name, i, err)
		}
	}
	if err := w.Close(); err != nil {
		_ = blob.Close()
		return fmt.Errorf("source: %s: %w", name, err)
	}
	if err := blob.Close(); err != nil {
		return fmt.Errorf("source: write %s: %w", name, err)
	}
	return nil
}

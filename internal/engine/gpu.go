package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hupe1980/slotmatch/internal/device"
	"github.com/hupe1980/slotmatch/mask"
	"github.com/hupe1980/slotmatch/source"
)

// gpuMatcher evaluates every (event, user) pair on the device, then sums
// each event's row with a block reduction.
type gpuMatcher struct {
	dev       *device.Device
	blockSize int
	batch     int
	logger    *slog.Logger
}

func (m *gpuMatcher) Strategy() Strategy { return GPU }

func (m *gpuMatcher) Match(ctx context.Context, src source.Source) (res *Result, err error) {
	start := time.Now()

	conn, rawUsers, err := load(ctx, src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	events, err := conn.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	ids := make([]int64, len(events))
	seen := make(map[int64]struct{}, len(events))
	for i, ev := range events {
		if _, dup := seen[ev.ID]; dup {
			return nil, duplicateEvent(ev.ID)
		}
		seen[ev.ID] = struct{}{}
		ids[i] = ev.ID
	}
	loaded := time.Now()

	nUsers, nEvents := len(rawUsers), len(events)
	if err := checkIndexing(nUsers, nEvents); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess := m.dev.NewSession()
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			err = errors.Join(err, cerr)
			res = nil
		}
	}()

	host, err := m.stage(sess, rawUsers, events)
	if err != nil {
		return nil, err
	}

	counts, kernel, err := m.run(ctx, sess, host, nUsers, nEvents)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]int, nEvents)
	for i, id := range ids {
		out[id] = int(counts[i])
	}

	res = &Result{
		Strategy: GPU,
		Counts:   out,
		Users:    nUsers,
		Events:   nEvents,
		Timings: Timings{
			Load:   loaded.Sub(start),
			Match:  time.Since(loaded),
			Kernel: kernel,
		},
	}
	m.logger.DebugContext(ctx, "match finished",
		"users", nUsers, "events", nEvents,
		"load", res.Timings.Load, "match", res.Timings.Match, "kernel", kernel)
	return res, nil
}

// checkIndexing rejects inputs whose buffers cannot be addressed with
func checkIndexing(nUsers, nEvents int) error {
	if nUsers <= math.MaxInt32/mask.Size && nEvents <= math.MaxInt32/mask.Size {
		return nil
	}
	return &device.Error{
		Op:  "malloc",
		Err: fmt.Errorf("%w: %d users x %d events exceeds device indexing", device.ErrOutOfMemory, nUsers, nEvents),
	}
}

type staging struct {
	users  *device.HostBuffer
	events *device.HostBuffer
}

// stage validates every mask and packs users and events into pinned
// host buffers, one mask.Size record each.
func (m *gpuMatcher) stage(sess *device.Session, users [][]byte, events []source.Event) (staging, error) {
	ub, err := sess.HostAlloc(len(users) * mask.Size)
	if err != nil {
		return staging{}, err
	}
	for i, u := range users {
		if _, err := mask.Decode(u); err != nil {
			return staging{}, fmt.Errorf("user %d: %w", i, err)
		}
		copy(ub.Bytes()[i*mask.Size:], u)
	}

	eb, err := sess.HostAlloc(len(events) * mask.Size)
	if err != nil {
		return staging{}, err
	}
	for i, ev := range events {
		if _, err := mask.Decode(ev.Mask); err != nil {
			return staging{}, fmt.Errorf("event %d: %w", ev.ID, err)
		}
		copy(eb.Bytes()[i*mask.Size:], ev.Mask)
	}

	m.logger.Debug("staged host buffers", "pinned", ub.Pinned() && eb.Pinned())
	return staging{users: ub, events: eb}, nil
}

// run copies the staged masks to the device, launches the kernels in
// batches of events and returns the per-event counts.
func (m *gpuMatcher) run(ctx context.Context, sess *device.Session, host staging, nUsers, nEvents int) ([]int32, time.Duration, error) {
	counts := make([]int32, nEvents)
	if nEvents == 0 || nUsers == 0 {
		return counts, 0, nil
	}

	dUsers, err := device.Malloc[byte](sess, nUsers*mask.Size)
	if err != nil {
		return nil, 0, err
	}
	dEvents, err := device.Malloc[byte](sess, nEvents*mask.Size)
	if err != nil {
		return nil, 0, err
	}
	dCounts, err := device.Malloc[int32](sess, nEvents)
	if err != nil {
		return nil, 0, err
	}

	rows := m.batchRows(nUsers, nEvents)
	dMatrix, err := device.Malloc[int32](sess, rows*nUsers)
	if err != nil {
		return nil, 0, err
	}

	if err := device.CopyToDevice(ctx, dUsers, host.users.Bytes()); err != nil {
		return nil, 0, err
	}
	if err := device.CopyToDevice(ctx, dEvents, host.events.Bytes()); err != nil {
		return nil, 0, err
	}
	if err := device.Memset(dCounts, 0); err != nil {
		return nil, 0, err
	}

	kstart := time.Now()
	bs := m.blockSize
	for base := 0; base < nEvents; base += rows {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		n := min(rows, nEvents-base)
		grid := device.Dim((nUsers+bs-1)/bs, n)
		block := device.Dim(bs, 1)

		pk := pairwiseKernel(dEvents, dUsers, dMatrix, base, n, nUsers)
		if err := sess.Launch(grid, block, 0, pk); err != nil {
			return nil, 0, err
		}
		rk := reduceKernel(dMatrix, dCounts, base, n, nUsers)
		if err := sess.Launch(grid, block, bs, rk); err != nil {
			return nil, 0, err
		}
	}
	if err := sess.Synchronize(); err != nil {
		return nil, 0, err
	}
	kernel := time.Since(kstart)
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	if err := device.CopyToHost(ctx, counts, dCounts); err != nil {
		return nil, 0, err
	}
	return counts, kernel, nil
}

// batchRows returns how many events one kernel pair covers. The grid's Y
// dimension limits it, and so does the device memory left for the matrix.
func (m *gpuMatcher) batchRows(nUsers, nEvents int) int {
	rows := min(nEvents, m.dev.MaxGridY())
	if m.batch > 0 {
		rows = min(rows, m.batch)
	}
	if limit := m.dev.Config().MemoryLimitBytes; limit > 0 {
		free := limit - m.dev.Stats().DeviceBytes
		if fit := int(free / (int64(nUsers) * 4)); fit >= 1 {
			rows = min(rows, fit)
		}
	}
	return max(rows, 1)
}

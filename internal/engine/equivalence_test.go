package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slotmatch/mask"
	"github.com/hupe1980/slotmatch/source"
	"github.com/hupe1980/slotmatch/testutil"
)

func match(t *testing.T, s Strategy, cfg Config, src source.Source) (*Result, error) {
	t.Helper()
	m, err := New(s, cfg)
	require.NoError(t, err)
	return m.Match(context.Background(), src)
}

func TestConcreteScenario(t *testing.T) {
	users := [][]byte{mask.Full().Bytes(), make([]byte, mask.Size)}
	bit0 := make([]byte, mask.Size)
	bit0[0] = 0x01
	events := []source.Event{
		{ID: 1, Mask: bit0},
		{ID: 2, Mask: make([]byte, mask.Size)},
	}

	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			src := source.NewMemory(users, events)
			res, err := match(t, s, Config{Pages: 2}, src)
			require.NoError(t, err)

			assert.Equal(t, map[int64]int{1: 1, 2: 2}, res.Counts)
			assert.Equal(t, s, res.Strategy)
			assert.Equal(t, 2, res.Users)
			assert.Equal(t, 2, res.Events)
			assert.Equal(t, 3, res.Total())
			assert.Equal(t, []Count{{EventID: 1, Matches: 1}, {EventID: 2, Matches: 2}}, res.Sorted())
			assert.Zero(t, src.OpenConnections())
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	rng := testutil.NewRNG(4711)

	datasets := map[string]*source.Dataset{
		"Sparse": rng.Dataset(300, 200),
		"Dense":  rng.DenseDataset(257, 120, 0.8),
		"Full":   rng.DenseDataset(64, 40, 1),
	}

	for name, ds := range datasets {
		want := testutil.ExactCounts(ds)

		for _, s := range append(Strategies(), Auto) {
			t.Run(name+"/"+s.String(), func(t *testing.T) {
				src := source.FromDataset(ds)
				res, err := match(t, s, Config{Pages: 4, BlockSize: 64}, src)
				require.NoError(t, err)
				assert.Equal(t, want, res.Counts)
				assert.Len(t, res.Counts, len(ds.Events))
			})
		}
	}
}

func TestEmptyInputs(t *testing.T) {
	rng := testutil.NewRNG(1)

	tests := []struct {
		name   string
		users  [][]byte
		events []source.Event
	}{
		{"NoEvents", rng.Masks(10), nil},
		{"NoUsers", nil, []source.Event{
			{ID: 5, Mask: rng.Mask().Bytes()},
			{ID: 6, Mask: make([]byte, mask.Size)},
		}},
		{"Nothing", nil, nil},
	}

	for _, tt := range tests {
		for _, s := range Strategies() {
			t.Run(tt.name+"/"+s.String(), func(t *testing.T) {
				res, err := match(t, s, Config{Pages: 2}, source.NewMemory(tt.users, tt.events))
				require.NoError(t, err)
				require.Len(t, res.Counts, len(tt.events))
				for _, ev := range tt.events {
					assert.Zero(t, res.Counts[ev.ID])
				}
			})
		}
	}
}

func TestMalformedMasks(t *testing.T) {
	good := make([]byte, mask.Size)
	short := make([]byte, mask.Size-1)

	tests := []struct {
		name   string
		users  [][]byte
		events []source.Event
	}{
		{"User", [][]byte{good, short}, []source.Event{{ID: 1, Mask: good}, {ID: 2, Mask: good}}},
		{"Event", [][]byte{good}, []source.Event{{ID: 1, Mask: good}, {ID: 2, Mask: short}}},
	}

	for _, tt := range tests {
		for _, s := range Strategies() {
			t.Run(tt.name+"/"+s.String(), func(t *testing.T) {
				src := source.NewMemory(tt.users, tt.events)
				_, err := match(t, s, Config{Pages: 2}, src)
				require.ErrorIs(t, err, mask.ErrFormat)

				var fe *mask.FormatError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, mask.Size-1, fe.Length)
				assert.Zero(t, src.OpenConnections())
			})
		}
	}
}

func TestDuplicateEventIDs(t *testing.T) {
	rng := testutil.NewRNG(3)
	users := rng.Masks(8)
	events := []source.Event{
		{ID: 7, Mask: rng.Mask().Bytes()},
		{ID: 7, Mask: rng.Mask().Bytes()},
	}

	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			_, err := match(t, s, Config{Pages: 2}, source.NewMemory(users, events))
			require.ErrorIs(t, err, ErrDuplicateEvent)
		})
	}
}

func TestCanceledContext(t *testing.T) {
	ds := testutil.NewRNG(9).Dataset(20, 20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			m, err := New(s, Config{Pages: 2})
			require.NoError(t, err)

			src := source.FromDataset(ds)
			_, err = m.Match(ctx, src)
			require.ErrorIs(t, err, context.Canceled)
			assert.Zero(t, src.OpenConnections())
		})
	}
}

func BenchmarkStrategies(b *testing.B) {
	ds := testutil.NewRNG(42).Dataset(2000, 1000)

	for _, s := range Strategies() {
		b.Run(s.String(), func(b *testing.B) {
			m, err := New(s, Config{Pages: 10})
			require.NoError(b, err)
			src := source.FromDataset(ds)

			for b.Loop() {
				if _, err := m.Match(context.Background(), src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("NotFound", func(t *testing.T) {
				_, err := s.Open(ctx, "missing")
				require.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("PutOpen", func(t *testing.T) {
				require.NoError(t, s.Put(ctx, "a/users.tbl", []byte("hello world")))

				b, err := s.Open(ctx, "a/users.tbl")
				require.NoError(t, err)
				defer b.Close()
				assert.Equal(t, int64(11), b.Size())

				buf := make([]byte, 5)
				n, err := b.ReadAt(ctx, buf, 6)
				require.NoError(t, err)
				assert.Equal(t, 5, n)
				assert.Equal(t, "world", string(buf))

				n, err = b.ReadAt(ctx, buf, 8)
				assert.Equal(t, 3, n)
				assert.ErrorIs(t, err, io.EOF)

				_, err = b.ReadAt(ctx, buf, 11)
				assert.ErrorIs(t, err, io.EOF)

				m, ok := b.(Mappable)
				require.True(t, ok)
				data, err := m.Bytes()
				require.NoError(t, err)
				assert.Equal(t, "hello world", string(data))
			})

			t.Run("Create", func(t *testing.T) {
				w, err := s.Create(ctx, "a/events.tbl")
				require.NoError(t, err)
				_, err = w.Write([]byte("stream"))
				require.NoError(t, err)
				_, err = w.Write([]byte("ed"))
				require.NoError(t, err)
				require.NoError(t, w.Close())

				b, err := s.Open(ctx, "a/events.tbl")
				require.NoError(t, err)
				defer b.Close()
				assert.Equal(t, int64(8), b.Size())
			})

			t.Run("Empty", func(t *testing.T) {
				require.NoError(t, s.Put(ctx, "empty", nil))
				b, err := s.Open(ctx, "empty")
				require.NoError(t, err)
				assert.Zero(t, b.Size())
				require.NoError(t, b.Close())
			})

			t.Run("List", func(t *testing.T) {
				names, err := s.List(ctx, "a/")
				require.NoError(t, err)
				assert.Equal(t, []string{"a/events.tbl", "a/users.tbl"}, names)
			})

			t.Run("Current", func(t *testing.T) {
				_, err := ReadCurrent(ctx, s)
				require.ErrorIs(t, err, ErrNotFound)

				require.NoError(t, s.Put(ctx, CurrentName, []byte("a/")))
				cur, err := ReadCurrent(ctx, s)
				require.NoError(t, err)
				assert.Equal(t, "a/", cur)
			})

			t.Run("Delete", func(t *testing.T) {
				require.NoError(t, s.Delete(ctx, "a/users.tbl"))
				require.NoError(t, s.Delete(ctx, "a/users.tbl"))
				_, err := s.Open(ctx, "a/users.tbl")
				require.ErrorIs(t, err, ErrNotFound)
			})
		})
	}
}

func TestLocalStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStore(root)

	require.NoError(t, s.Put(ctx, "x", []byte("1")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x", entries[0].Name())

	_, err = os.Stat(filepath.Join(root, "x"))
	require.NoError(t, err)
}

func TestMemoryStore_PutCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", data))
	data[0] = 'X'

	b, err := s.Open(ctx, "k")
	require.NoError(t, err)
	buf := make([]byte, 3)
	_, err = b.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf))
}

package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func implementations(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "scholard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "deck/1", note{Title: "Biology", Tags: []string{"cells"}}))

			var got note
			require.NoError(t, s.Get(ctx, "deck/1", &got))
			assert.Equal(t, note{Title: "Biology", Tags: []string{"cells"}}, got)

			require.NoError(t, s.Set(ctx, "deck/1", note{Title: "Chemistry"}))
			require.NoError(t, s.Get(ctx, "deck/1", &got))
			assert.Equal(t, "Chemistry", got.Title)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			var got note
			assert.ErrorIs(t, s.Get(ctx, "missing", &got), ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "missing"), ErrNotFound)
		})
	}
}

func TestStore_DeleteAndKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"researcher/b", "researcher/a", "connection/x", "researcherz"} {
				require.NoError(t, s.Set(ctx, k, k))
			}

			keys, err := s.Keys(ctx, "researcher/")
			require.NoError(t, err)
			assert.Equal(t, []string{"researcher/a", "researcher/b"}, keys)

			require.NoError(t, s.Delete(ctx, "researcher/a"))
			keys, err = s.Keys(ctx, "researcher/")
			require.NoError(t, err)
			assert.Equal(t, []string{"researcher/b"}, keys)

			all, err := s.Keys(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	n := note{Title: "Physics", Tags: []string{"waves"}}
	require.NoError(t, s.Set(ctx, "k", n))
	n.Tags[0] = "mutated"

	var got note
	require.NoError(t, s.Get(ctx, "k", &got))
	assert.Equal(t, []string{"waves"}, got.Tags)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "deck/2", note{Title: "two"}))
			require.NoError(t, s.Set(ctx, "deck/1", note{Title: "one"}))
			require.NoError(t, s.Set(ctx, "other/1", note{Title: "other"}))

			got, err := List[note](ctx, s, "deck/")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "one", got[0].Title)
			assert.Equal(t, "two", got[1].Title)
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "scholard.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "profile/self", note{Title: "me"}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	var got note
	require.NoError(t, s.Get(ctx, "profile/self", &got))
	assert.Equal(t, "me", got.Title)
	assert.Equal(t, path, s.Path())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k/" + string(rune('a'+i))
			_ = s.Set(ctx, key, i)
			var v int
			_ = s.Get(ctx, key, &v)
			_, _ = s.Keys(ctx, "k/")
		}(i)
	}
	wg.Wait()

	keys, err := s.Keys(ctx, "k/")
	require.NoError(t, err)
	assert.Len(t, keys, 16)
}

func TestOpen(t *testing.T) {
	s, err := Open(Config{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(Config{Driver: "sqlite"})
	assert.Error(t, err)

	_, err = Open(Config{Driver: "postgres"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

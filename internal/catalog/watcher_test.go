package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher_RequiresPath(t *testing.T) {
	_, err := NewWatcher("", 0)
	require.Error(t, err)
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, smallCatalog)

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Len(t, w.Current().Papers, 1)

	reloaded := make(chan *Catalog, 4)
	w.OnReload(func(c *Catalog) { reloaded <- c })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Give the watcher time to register before editing.
	time.Sleep(50 * time.Millisecond)

	// Invalid edits are ignored.
	require.NoError(t, os.WriteFile(path, []byte("[[papers]"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, w.Current().Papers, 1)

	updated := smallCatalog + `
[[papers]]
id = "p2"
title = "Interleaved Practice"
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	select {
	case c := <-reloaded:
		require.Len(t, c.Papers, 2)
		assert.Equal(t, "p2", c.Papers[1].ID)
	case <-time.After(5 * time.Second):
		t.Fatal("catalog was not reloaded")
	}
	assert.Len(t, w.Current().Papers, 2)
}

func TestWatcher_ReloadNotifiesEverySubscriber(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, smallCatalog)

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)

	first := make(chan int, 4)
	second := make(chan int, 4)
	w.OnReload(func(c *Catalog) { first <- len(c.Papers) })
	w.OnReload(func(c *Catalog) { second <- len(c.Papers) })

	updated := smallCatalog + `
[[papers]]
id = "p2"
title = "Spaced Repetition"
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))
	w.reload(context.Background())

	for name, ch := range map[string]chan int{"first": first, "second": second} {
		select {
		case n := <-ch:
			assert.Equal(t, 2, n, name)
		default:
			t.Fatalf("%s subscriber was not notified", name)
		}
	}
	assert.Len(t, w.Current().Papers, 2)
}

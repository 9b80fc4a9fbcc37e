package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Version:    dev")
}

func TestUnknownCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"bogus"})
	assert.Error(t, cmd.Execute())
}

func TestNewApp_InvalidConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SERVER_HTTP_PORT", "70000")
	_, err := newApp(context.Background(), "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

const testCatalog = `
[[papers]]
id = "p1"
type = "article"
title = "Spaced Repetition and Long-Term Memory"
authors = "Doe, Jane"
year = "2020"
source = "Memory Studies"
`

func TestMainIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "scholard")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	catalogPath := filepath.Join(dir, "catalog.toml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o600))

	t.Setenv("SERVER_HTTP_PORT", "18085")
	t.Setenv("CATALOG_PATH", catalogPath)
	t.Setenv("CATALOG_WATCH", "true")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- runServe(ctx, "")
	}()

	papers := func() int {
		resp, err := http.Get("http://127.0.0.1:18085/health")
		if err != nil {
			return -1
		}
		defer resp.Body.Close()
		var body struct {
			Papers int `json:"papers"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) != nil {
			return -1
		}
		return body.Papers
	}

	require.Eventually(t, func() bool { return papers() == 1 }, 5*time.Second, 50*time.Millisecond)
	// Give the watcher time to register before the edit.
	time.Sleep(300 * time.Millisecond)

	updated := testCatalog + fmt.Sprintf(`
[[papers]]
id = "p2"
type = "book"
title = "Learning How to Learn"
authors = "Roe, Sam"
year = "%d"
source = "Academic Press"
`, 2021)
	require.NoError(t, os.WriteFile(catalogPath, []byte(updated), 0o600))
	require.Eventually(t, func() bool { return papers() == 2 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

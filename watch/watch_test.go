// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor waits for a batch of changes that includes the given path.
func waitFor(t *testing.T, changes <-chan []string, path string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case paths := <-changes:
			if slices.Contains(paths, path) {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for a change to %q", path)
		}
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "music"), 0755))

	changes := make(chan []string, 16)
	w, err := New(dir, func(paths []string) { changes <- paths })
	require.NoError(t, err)
	defer w.Close()
	w.Delay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0644))
	waitFor(t, changes, "index.html")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "music", "track.mp3"), []byte("ID3"), 0644))
	waitFor(t, changes, "music/track.mp3")

	require.NoError(t, os.Mkdir(filepath.Join(dir, "art"), 0755))
	waitFor(t, changes, "art")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "art", "cover.png"), []byte("png"), 0644))
	waitFor(t, changes, "art/cover.png")

	require.NoError(t, os.Remove(filepath.Join(dir, "index.html")))
	waitFor(t, changes, "index.html")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

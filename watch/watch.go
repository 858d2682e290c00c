// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package watch watches the content directory for changes, so that
// pages can be reloaded while the game bundle is being worked on.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/enhanced-cd/cdshell/base/errors"
	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the default time the [Watcher] waits for further
// changes before reporting a batch of them.
const DefaultDelay = 100 * time.Millisecond

// Watcher watches a directory tree and reports batches of changed files.
type Watcher struct {

	// Dir is the root directory being watched.
	Dir string

	// Delay is the time to wait after a change for further changes
	// before calling OnChange.
	Delay time.Duration

	// OnChange is called with the sorted slash-separated paths, relative
	// to Dir, of the files that changed. It is called from the goroutine
	// running [Watcher.Run].
	OnChange func(paths []string)

	fw *fsnotify.Watcher
}

// New returns a new [Watcher] for the given directory and all
// of its subdirectories.
func New(dir string, onChange func(paths []string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{Dir: dir, Delay: DefaultDelay, OnChange: onChange, fw: fw}
	if err := w.addTree(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Run reports changes until the context is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	pending := map[string]struct{}{}
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.addIfDir(event.Name)
			}
			rel, err := filepath.Rel(w.Dir, event.Name)
			if errors.Log(err) != nil {
				continue
			}
			pending[filepath.ToSlash(rel)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.Delay)
			} else {
				timer.Reset(w.Delay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			slog.Debug("content changed", "paths", paths)
			if w.OnChange != nil {
				w.OnChange(paths)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("content watcher error", "err", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// addTree adds the given directory and all directories under it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.fw.Add(path)
	})
}

// addIfDir adds the tree at the given path if it is a new directory.
func (w *Watcher) addIfDir(path string) {
	err := w.addTree(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Debug("content watcher could not watch", "path", path, "err", err)
	}
}

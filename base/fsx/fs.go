// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsx provides various utility functions for dealing with filesystems.
package fsx

import (
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/enhanced-cd/cdshell/base/errors"
)

// ErrOutsideRoot is returned by [Confine] for paths that
// would resolve outside of their root directory.
var ErrOutsideRoot = errors.New("path escapes the root directory")

// Confine returns the given slash-separated path relative to a root
// directory as a clean [fs.FS] name, which is "." for the root itself.
// It returns an error wrapping [ErrOutsideRoot] if the path is absolute,
// contains a NUL byte, or has ".." elements that climb above the root.
func Confine(rel string) (string, error) {
	if strings.IndexByte(rel, 0) >= 0 || strings.HasPrefix(rel, "/") || strings.Contains(rel, `\`) {
		return "", &fs.PathError{Op: "confine", Path: rel, Err: ErrOutsideRoot}
	}
	if rel == "" {
		return ".", nil
	}
	clean := path.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") || !fs.ValidPath(clean) {
		return "", &fs.PathError{Op: "confine", Path: rel, Err: ErrOutsideRoot}
	}
	return clean, nil
}

// OpenRoot opens the given directory as an [os.Root] and returns its
// [fs.FS] view, which cannot be used to access anything outside of
// dir, even through symbolic links. The returned closer releases the root.
func OpenRoot(dir string) (fs.FS, io.Closer, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, nil, err
	}
	return root.FS(), root, nil
}

// FileExistsFS checks whether given file exists, returning true if so,
// false if not, and error if there is an error in accessing the file.
func FileExistsFS(fsys fs.FS, filePath string) (bool, error) {
	if fsys, ok := fsys.(fs.StatFS); ok {
		fileInfo, err := fsys.Stat(filePath)
		if err == nil {
			return !fileInfo.IsDir(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	fp, err := fsys.Open(filePath)
	if err == nil {
		fp.Close()
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

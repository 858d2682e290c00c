// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bundle checks a game content bundle for files that will not
// be served the way the page expects.
package bundle

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/enhanced-cd/cdshell/base/fileinfo"
	"github.com/enhanced-cd/cdshell/base/fsx"
)

// Index is the name of the page the shell loads first.
const Index = "index.html"

// Kinds of [Issue].
const (
	// MissingIndex means that the bundle has no [Index] page.
	MissingIndex = "missing-index"

	// UnknownType means that the file extension is not known, so the
	// file is served as [fileinfo.Binary].
	UnknownType = "unknown-type"

	// Mismatch means that the content of the file does not match the
	// type implied by its extension.
	Mismatch = "mismatch"
)

// Issue is a single problem found in a bundle.
type Issue struct {

	// Path is the slash-separated path of the file in the bundle.
	Path string

	// Kind is the kind of the issue.
	Kind string

	// Detail is a human-readable description of the issue.
	Detail string
}

func (is Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", is.Path, is.Kind, is.Detail)
}

// Report is the result of [Check].
type Report struct {

	// Files is the number of files checked.
	Files int

	// Issues are the problems found, in walk order.
	Issues []Issue
}

// OK returns whether no issues were found.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// String returns the issues, one per line.
func (r *Report) String() string {
	var b strings.Builder
	for _, is := range r.Issues {
		b.WriteString(is.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Check checks all of the files in the given bundle filesystem.
// Media files (wasm, images, audio) are sniffed for their actual type.
func Check(fsys fs.FS) (*Report, error) {
	r := &Report{}
	has, err := fsx.FileExistsFS(fsys, Index)
	if err != nil {
		return nil, err
	}
	if !has {
		r.add(Index, MissingIndex, "the shell loads "+Index+" first")
	}
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		r.Files++
		kn := fileinfo.KnownFromPath(path)
		if kn == fileinfo.Unknown {
			r.add(path, UnknownType, "served as "+fileinfo.Binary)
			return nil
		}
		if !kn.IsMedia() {
			return nil
		}
		head, err := readHead(fsys, path)
		if err != nil {
			return err
		}
		sniffed, ok := fileinfo.Sniff(head)
		if !ok {
			r.add(path, Mismatch, fmt.Sprintf("content is not recognizable as %s", kn.Mime()))
			return nil
		}
		if sniffed != kn.Mime() {
			r.add(path, Mismatch, fmt.Sprintf("content is %s but served as %s", sniffed, kn.Mime()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Report) add(path, kind, detail string) {
	r.Issues = append(r.Issues, Issue{Path: path, Kind: kind, Detail: detail})
}

// readHead reads up to [fileinfo.SniffLen] bytes from the start of a file.
func readHead(fsys fs.FS, path string) ([]byte, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	head := make([]byte, fileinfo.SniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return head[:n], nil
}

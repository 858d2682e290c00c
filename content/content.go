// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package content serves the bundled game content through the custom
// cd-content URI scheme, for webview hosts that register scheme handlers,
// and over HTTP, for hosts that load the content from a loopback server.
//
// Every request is independent: the handler holds no mutable state, so
// it can be used from any number of goroutines at once. A request either
// resolves to a file under the content root, which is served with the
// cross-origin isolation headers the Wasm game needs, or fails with an
// empty 404 response.
package content

import (
	"io/fs"
	"log/slog"
	"net/url"

	"github.com/enhanced-cd/cdshell/base/fileinfo"
	"github.com/enhanced-cd/cdshell/base/fsx"
)

const (
	// Scheme is the default custom URI scheme for content requests.
	Scheme = "cd-content"

	// Host is the default host of content request URIs.
	Host = "localhost"

	// Prefix is the default prefix stripped from content request URIs.
	Prefix = Scheme + "://" + Host + "/"

	// BaseDir is the default directory the bundled game content is read from.
	BaseDir = "game"
)

// Handler handles content requests by reading files from FS.
type Handler struct {

	// FS is the filesystem rooted at the content base directory.
	FS fs.FS

	// Prefix is the scheme and host prefix stripped from request URIs
	// to get the path of the requested file.
	Prefix string

	// Dir is the name of the content base directory, which is only
	// used to report resource paths in log messages.
	Dir string

	// Logger is the logger read failures are reported to.
	// If it is nil, [slog.Default] is used.
	Logger *slog.Logger
}

// NewHandler returns a new [Handler] for the given content filesystem
// with the default [Prefix] and [BaseDir].
func NewHandler(fsys fs.FS) *Handler {
	return &Handler{FS: fsys, Prefix: Prefix, Dir: BaseDir}
}

// NewPrefix returns the request URI prefix for the given scheme and host.
func NewPrefix(scheme, host string) string {
	return scheme + "://" + host + "/"
}

// URL returns the content URI for the given relative path.
func (h *Handler) URL(rel string) string {
	return h.Prefix + rel
}

// Handle handles the content request for the given URI, returning
// either a 200 [Response] with the file content or an empty 404 one.
// It never returns nil.
func (h *Handler) Handle(uri string) *Response {
	rel := h.RelPath(uri)
	resource := h.Dir + "/" + rel
	name, data, err := h.read(rel)
	if err != nil {
		h.logger().Error("failed to read resource", "path", resource, "err", err)
		return NotFound()
	}
	return OK(fileinfo.MimeType(name), data)
}

// read decodes and confines the given relative path and reads the file
// at it, returning the confined name along with the data.
func (h *Handler) read(rel string) (string, []byte, error) {
	dec, err := url.PathUnescape(rel)
	if err != nil {
		return "", nil, err
	}
	name, err := fsx.Confine(dec)
	if err != nil {
		return "", nil, err
	}
	data, err := fs.ReadFile(h.FS, name)
	if err != nil {
		return "", nil, err
	}
	return name, data, nil
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

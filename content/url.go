// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import "strings"

// RelPath returns the path of the requested file relative to the content
// base directory for the given request URI, still percent-encoded.
// If the URI does not start with [Handler.Prefix], the result is empty,
// which refers to the base directory itself and so is never served.
// Any query string or fragment is dropped.
func (h *Handler) RelPath(uri string) string {
	rel, ok := strings.CutPrefix(uri, h.Prefix)
	if !ok {
		return ""
	}
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	return rel
}

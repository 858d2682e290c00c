// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"net/http"
	"strings"
)

// ServeHTTP serves the content request for the request path, as if it
// had been made to the [Handler.Prefix] URI with that path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uri := h.Prefix + strings.TrimPrefix(r.URL.EscapedPath(), "/")
	h.logger().Debug("content request", "method", r.Method, "uri", uri)
	if err := h.Handle(uri).Write(w); err != nil {
		h.logger().Debug("writing content response", "uri", uri, "err", err)
	}
}

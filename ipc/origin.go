// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc

import (
	"net/http"
	"net/url"
	"slices"
)

// AllowOrigin returns whether the given request may invoke commands based
// on its Origin header. Requests without an origin, from the host of the
// server itself, or from one of the allowed origins are accepted.
func AllowOrigin(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(allowed, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// RequireOrigin returns a handler that calls h for requests accepted by
// [AllowOrigin], and rejects all others with a 403 [Reply].
func RequireOrigin(h http.Handler, allowed ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !AllowOrigin(r, allowed) {
			writeReply(w, http.StatusForbidden, &Reply{Error: "origin not allowed"})
			return
		}
		h.ServeHTTP(w, r)
	})
}

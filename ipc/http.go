// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/enhanced-cd/cdshell/base/errors"
)

// MaxArgsSize is the maximum size of the arguments of a command
// invoked over HTTP.
const MaxArgsSize = 1 << 20

// ServeHTTP invokes the command named by the request path with the request
// body as its JSON arguments, and writes the [Reply] as JSON. The router is
// meant to be mounted with [http.StripPrefix], so that the remaining path is
// exactly the command name. Only POST requests are accepted.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeReply(w, http.StatusMethodNotAllowed, &Reply{Error: "method not allowed"})
		return
	}
	name := strings.TrimPrefix(req.URL.Path, "/")
	if name == "" || strings.Contains(name, "/") {
		writeReply(w, http.StatusNotFound, newReply(0, nil, fmt.Errorf("%w: %q", ErrUnknownCommand, req.URL.Path)))
		return
	}
	args, err := io.ReadAll(http.MaxBytesReader(w, req.Body, MaxArgsSize))
	if err != nil {
		writeReply(w, http.StatusBadRequest, newReply(0, nil, err))
		return
	}
	res, err := r.Invoke(req.Context(), name, args)
	status := http.StatusOK
	switch {
	case errors.Is(err, ErrUnknownCommand):
		status = http.StatusNotFound
	case errors.Is(err, ErrBadArgs):
		status = http.StatusBadRequest
	case err != nil:
		status = http.StatusInternalServerError
	}
	if err != nil {
		slog.Warn("ipc command failed", "cmd", name, "err", err)
	}
	writeReply(w, status, newReply(0, res, err))
}

func writeReply(w http.ResponseWriter, status int, reply *Reply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	errors.Log(json.NewEncoder(w).Encode(reply))
}

// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc

import "encoding/json"

// Request is a command invocation sent by the page.
type Request struct {

	// ID is chosen by the page to match the [Reply] to this request.
	ID uint64 `json:"id"`

	// Cmd is the name of the command to invoke.
	Cmd string `json:"cmd"`

	// Args are the JSON arguments of the command.
	Args json.RawMessage `json:"args,omitempty"`
}

// Reply is the result of a [Request]. Exactly one of Result
// and Error is set.
type Reply struct {
	ID     uint64 `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Event is a message pushed from the shell to the page.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// newReply returns the reply for the given request ID and command outcome.
func newReply(id uint64, result any, err error) *Reply {
	if err != nil {
		return &Reply{ID: id, Error: err.Error()}
	}
	return &Reply{ID: id, Result: result}
}

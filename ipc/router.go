// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ipc provides the command bridge between the page running in
// the webview and the Go shell. Commands are registered by name on a
// [Router] and invoked with JSON arguments, either over a WebSocket
// connection managed by a [Hub] or with plain HTTP POST requests.
package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/enhanced-cd/cdshell/base/errors"
)

var (
	// ErrUnknownCommand is returned when invoking a command
	// that has not been registered.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadArgs is returned when the arguments of a command
	// cannot be decoded.
	ErrBadArgs = errors.New("bad command arguments")

	// ErrBadRequest is replied to messages that are not valid requests.
	ErrBadRequest = errors.New("bad request message")
)

// Func is the function that implements a command. It receives the raw
// JSON arguments of the invocation, which may be empty, and returns a
// result that is encoded as JSON.
type Func func(ctx context.Context, args json.RawMessage) (any, error)

// Router is a registry of named commands. It is safe for concurrent use.
type Router struct {
	mu   sync.RWMutex
	cmds map[string]Func
}

// NewRouter returns a new empty [Router].
func NewRouter() *Router {
	return &Router{cmds: map[string]Func{}}
}

// Register registers the given command function under the given name.
// It panics if the name is empty or already registered.
func (r *Router) Register(name string, f Func) {
	if name == "" {
		panic("ipc: empty command name")
	}
	if f == nil {
		panic("ipc: nil command function for " + name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, has := r.cmds[name]; has {
		panic("ipc: multiple registrations for " + name)
	}
	r.cmds[name] = f
}

// Commands returns the sorted names of all registered commands.
func (r *Router) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cmds))
	for nm := range r.cmds {
		names = append(names, nm)
	}
	slices.Sort(names)
	return names
}

// Invoke calls the command with the given name and arguments.
func (r *Router) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	f, has := r.cmds[name]
	r.mu.RUnlock()
	if !has {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return f(ctx, args)
}

// Typed returns a [Func] that decodes the JSON arguments into a value
// of type A before calling f. Empty or null arguments leave A at its
// zero value.
func Typed[A, R any](f func(ctx context.Context, args A) (R, error)) Func {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args A
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrBadArgs, err)
			}
		}
		return f(ctx, args)
	}
}

// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands contains the commands the shell exposes to the page.
package commands

import (
	"context"
	"fmt"

	"github.com/enhanced-cd/cdshell/ipc"
)

// GreetArgs are the arguments of the greet command.
type GreetArgs struct {
	Name string `json:"name"`
}

// Greet returns the greeting for the given name.
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Rust!", name)
}

// Register registers all of the commands on the given router.
func Register(r *ipc.Router) {
	r.Register("greet", ipc.Typed(func(ctx context.Context, args GreetArgs) (string, error) {
		return Greet(args.Name), nil
	}))
}

// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cdshell is the desktop shell of the Enhanced CD app. It serves
// the bundled game content and the command bridge to the app page.
package main

import (
	"os"

	"github.com/enhanced-cd/cdshell/cmd/cdshell/cmd"
)

func main() {
	if err := cmd.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

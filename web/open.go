// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package web

import (
	"runtime"

	"github.com/enhanced-cd/cdshell/base/exec"
)

// Open opens the given URL with the opener of the system.
func Open(url string) error {
	cmd, args := OpenCommand(runtime.GOOS, url)
	return exec.Minor().Run(cmd, args...)
}

// OpenCommand returns the command and arguments that open
// the given URL on the given operating system.
func OpenCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

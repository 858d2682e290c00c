// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package exec provides an easy way to run external commands
// with configurable output and logging.
package exec

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Config contains the configuration information that
// controls the behavior of running commands.
type Config struct {

	// Dir is the directory to run commands in.
	// If it is empty, the current directory is used.
	Dir string

	// Env contains any additional environment variables to set.
	Env map[string]string

	// Stdout is the writer to write the standard output of called commands to.
	// It can be set to nil to disable the writing of the standard output.
	Stdout io.Writer

	// Stderr is the writer to write the standard error of called commands to.
	// It can be set to nil to disable the writing of the standard error.
	Stderr io.Writer

	// PrintOnly is whether to only log commands instead of running them.
	PrintOnly bool
}

// Minor returns a new [Config] object for a minor command,
// which discards its standard output.
func Minor() *Config {
	return &Config{Stderr: os.Stderr}
}

// Run runs the given command with the given arguments.
func (c *Config) Run(cmd string, args ...string) error {
	_, err := c.Exec(cmd, args...)
	return err
}

// Exec executes the command, returning whether it ran and any error.
func (c *Config) Exec(cmd string, args ...string) (ran bool, err error) {
	slog.Debug("running command", "cmd", cmd+" "+strings.Join(args, " "))
	if c.PrintOnly {
		return false, nil
	}
	cm := exec.Command(cmd, args...)
	cm.Dir = c.Dir
	if len(c.Env) > 0 {
		cm.Env = os.Environ()
		for k, v := range c.Env {
			cm.Env = append(cm.Env, k+"="+v)
		}
	}
	cm.Stdout = c.Stdout
	cm.Stderr = c.Stderr
	err = cm.Run()
	if err != nil {
		return true, fmt.Errorf("running %q failed: %w", cm.String(), err)
	}
	return true, nil
}

// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/enhanced-cd/cdshell/base/errors"
	"github.com/enhanced-cd/cdshell/ipc"
	"github.com/spf13/cobra"
)

func invokeCmd() *cobra.Command {
	var socket, origin string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "invoke <command> [json-args]",
		Short: "Invoke a command on a running shell through its command bridge",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
				if !json.Valid(raw) {
					return fmt.Errorf("invalid JSON arguments %q", args[1])
				}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			res, err := Invoke(ctx, socket, origin, args[0], raw)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(res))
			return err
		},
	}
	cmd.Flags().StringVarP(&socket, "socket", "s", "", "the WebSocket URL of the command bridge, as printed by serve")
	cmd.Flags().StringVar(&origin, "origin", "", "the origin to send, if the shell restricts origins")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for the reply")
	errors.Log(cmd.MarkFlagRequired("socket"))
	return cmd
}

// Invoke connects to the command bridge at socket, invokes the given
// command with the given JSON arguments and returns the JSON result.
func Invoke(ctx context.Context, socket, origin, command string, args json.RawMessage) (json.RawMessage, error) {
	c, err := ipc.Dial(ctx, socket, origin)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", socket, err)
	}
	defer func() { errors.Log(c.Close()) }()
	return c.Invoke(ctx, command, args)
}

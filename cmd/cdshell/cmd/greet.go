// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/enhanced-cd/cdshell/base/fileinfo"
	"github.com/enhanced-cd/cdshell/commands"
	"github.com/spf13/cobra"
)

func greetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "greet <name>",
		Short: "Print the greeting the greet command returns to the page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), commands.Greet(args[0]))
			return err
		},
	}
}

func mimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mime <path>...",
		Short: "Print the content type each path is served with",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range args {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p, fileinfo.MimeType(p)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

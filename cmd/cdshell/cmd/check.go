// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"

	"github.com/enhanced-cd/cdshell/base/fsx"
	"github.com/enhanced-cd/cdshell/base/logx"
	"github.com/enhanced-cd/cdshell/bundle"
	"github.com/spf13/cobra"
)

func (a *App) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Check the game content for files that will not be served as expected",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.Config.Content.Dir
			if len(args) > 0 {
				dir = args[0]
			}
			return Check(cmd.OutOrStdout(), dir)
		},
	}
}

// Check checks the game content in the given directory, writing any
// issues to w. It returns an error if there are any issues.
func Check(w io.Writer, dir string) error {
	fsys, root, err := fsx.OpenRoot(dir)
	if err != nil {
		return err
	}
	defer root.Close()
	r, err := bundle.Check(fsys)
	if err != nil {
		return err
	}
	if r.OK() {
		logx.PrintlnInfo("checked", r.Files, "files in", dir+": no issues found")
		return nil
	}
	fmt.Fprint(w, r.String())
	return fmt.Errorf("found %d issues in %d files in %s", len(r.Issues), r.Files, dir)
}

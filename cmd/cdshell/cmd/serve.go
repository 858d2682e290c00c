// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/enhanced-cd/cdshell/config"
	"github.com/enhanced-cd/cdshell/web"
	"github.com/spf13/cobra"
)

func (a *App) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game content and the command bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Serve(cmd.Context(), a.Config)
		},
	}
	a.serveFlags(cmd.Flags())
	return cmd
}

// Serve serves the app with the given config until
// the process is interrupted or the context is done.
func Serve(ctx context.Context, c *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	s, err := web.New(c)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

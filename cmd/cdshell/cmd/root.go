// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmd contains the actual command definitions
// for the commands in the cdshell tool.
package cmd

import (
	"github.com/enhanced-cd/cdshell/base/logx"
	"github.com/enhanced-cd/cdshell/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App is the state shared by the commands of the cdshell tool.
type App struct {

	// Config is the configuration, once the flags are parsed.
	Config *config.Config

	// file is the config file to open, if any.
	file string

	// overrides are the config values set on the command line.
	overrides config.Config

	vv, v, q bool
}

// NewRoot returns the root command of the cdshell tool, which
// serves the app when run without a subcommand.
func NewRoot() *cobra.Command {
	a := &App{}
	root := &cobra.Command{
		Use:               "cdshell",
		Short:             "cdshell serves the Enhanced CD game content and command bridge",
		SilenceUsage:      true,
		PersistentPreRunE: a.configure,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Serve(cmd.Context(), a.Config)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.file, "config", "c", "", "the config file to use (.toml, .yaml or .yml)")
	pf.StringVarP(&a.overrides.Content.Dir, "dir", "d", "", "the directory to serve the game content from (default \"game\")")
	pf.BoolVar(&a.vv, "vv", false, "show debug messages")
	pf.BoolVarP(&a.v, "verbose", "v", false, "show informational messages")
	pf.BoolVarP(&a.q, "quiet", "q", false, "only show errors")
	a.serveFlags(root.Flags())

	root.AddCommand(a.serveCmd(), a.checkCmd(), greetCmd(), mimeCmd(), invokeCmd())
	return root
}

// serveFlags adds the flags of the serve command to the given flag set.
func (a *App) serveFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&a.overrides.Listen, "listen", "l", "", "the address to serve on (default \"127.0.0.1:0\")")
	fs.IntVar(&a.overrides.MaxConns, "max-conns", 0, "the maximum number of simultaneous connections (default 64)")
	fs.BoolVarP(&a.overrides.Open, "open", "o", false, "open the app page with the system opener")
	fs.BoolVarP(&a.overrides.Watch, "watch", "w", false, "reload pages when the game content changes")
}

// configure sets the log level and loads the config: the defaults,
// then the config file, then the command line overrides.
func (a *App) configure(cmd *cobra.Command, args []string) error {
	// UserLevel is only written when it changes, since an in-process
	// server may be reading it.
	if lvl := logx.LevelFromFlags(a.vv, a.v, a.q); lvl != logx.UserLevel {
		logx.UserLevel = lvl
	}
	logx.SetDefaultLogger()

	cfg := config.New()
	if a.file != "" {
		if err := config.Open(cfg, a.file); err != nil {
			return err
		}
	}
	if err := config.Overlay(cfg, &a.overrides); err != nil {
		return err
	}
	if err := cfg.Expand(); err != nil {
		return err
	}
	a.Config = cfg
	return nil
}

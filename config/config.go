// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration structs for the shell,
// along with functions for loading them from files and command line
// overrides.
package config

import (
	"fmt"

	"github.com/enhanced-cd/cdshell/content"
	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
)

// Config is the main config struct that contains
// all of the configuration options for the shell.
type Config struct {

	// Name is the name of the app, as shown to the user.
	Name string `default:"Enhanced CD" toml:"name" yaml:"name"`

	// Listen is the address of the loopback HTTP server
	// that serves the content and the command bridge.
	Listen string `default:"127.0.0.1:0" toml:"listen" yaml:"listen"`

	// MaxConns is the maximum number of simultaneous
	// connections the HTTP server accepts.
	MaxConns int `default:"64" toml:"max_conns" yaml:"max_conns"`

	// Open is whether to open the app page with the system opener
	// once the server is listening.
	Open bool `toml:"open" yaml:"open"`

	// Watch is whether to watch the content directory and tell
	// pages when it changes.
	Watch bool `toml:"watch" yaml:"watch"`

	// Content contains the content serving options.
	Content Content `toml:"content" yaml:"content" copier:"-"`
}

// Content contains the content serving options.
type Content struct {

	// Scheme is the custom URI scheme content is requested with.
	Scheme string `default:"cd-content" toml:"scheme" yaml:"scheme"`

	// Host is the host of content request URIs.
	Host string `default:"localhost" toml:"host" yaml:"host"`

	// Dir is the directory the bundled game content is read from.
	// It may start with ~ for the home directory.
	Dir string `default:"game" toml:"dir" yaml:"dir"`
}

// New returns a new [Config] with all of its default values set.
func New() *Config {
	cfg := &Config{}
	SetFromDefaults(cfg)
	return cfg
}

// Prefix returns the content request URI prefix.
func (c *Content) Prefix() string {
	return content.NewPrefix(c.Scheme, c.Host)
}

// Origin returns the origin of pages loaded through the content scheme.
func (c *Content) Origin() string {
	return c.Scheme + "://" + c.Host
}

// Overlay sets all of the non-empty values of src on dst.
// It is used to apply command line overrides on top of
// the defaults and config file values.
func Overlay(dst, src *Config) error {
	opt := copier.Option{IgnoreEmpty: true}
	if err := copier.CopyWithOption(dst, src, opt); err != nil {
		return err
	}
	return copier.CopyWithOption(&dst.Content, &src.Content, opt)
}

// Expand expands a leading ~ in the paths of the config to the
// home directory of the user.
func (c *Config) Expand() error {
	dir, err := homedir.Expand(c.Content.Dir)
	if err != nil {
		return fmt.Errorf("expanding content directory %q: %w", c.Content.Dir, err)
	}
	c.Content.Dir = dir
	return nil
}

// Validate returns an error if the config cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Content.Scheme == "":
		return fmt.Errorf("config: content scheme must not be empty")
	case c.Content.Dir == "":
		return fmt.Errorf("config: content directory must not be empty")
	case c.MaxConns < 0:
		return fmt.Errorf("config: max_conns must not be negative, but is %d", c.MaxConns)
	}
	return nil
}

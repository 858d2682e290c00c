// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := New()
	assert.Equal(t, "Enhanced CD", cfg.Name)
	assert.Equal(t, "127.0.0.1:0", cfg.Listen)
	assert.Equal(t, 64, cfg.MaxConns)
	assert.False(t, cfg.Open)
	assert.False(t, cfg.Watch)
	assert.Equal(t, Content{Scheme: "cd-content", Host: "localhost", Dir: "game"}, cfg.Content)
	assert.Equal(t, "cd-content://localhost/", cfg.Content.Prefix())
	assert.Equal(t, "cd-content://localhost", cfg.Content.Origin())
	assert.NoError(t, cfg.Validate())
}

func TestSetFromDefaults(t *testing.T) {
	type inner struct {
		F float64 `default:"0.5"`
		U uint8   `default:"7"`
	}
	type outer struct {
		B     bool `default:"true"`
		I     int  `default:"0x10"`
		None  string
		Inner inner
	}
	var o outer
	require.NoError(t, SetFromDefaults(&o))
	assert.Equal(t, outer{B: true, I: 16, Inner: inner{F: 0.5, U: 7}}, o)

	assert.Error(t, SetFromDefaults(o))

	type bad struct {
		N int `default:"many"`
	}
	assert.Error(t, SetFromDefaults(&bad{}))
}

func TestOpenTOML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cdshell.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
name = "Test CD"
listen = "127.0.0.1:8080"
watch = true

[content]
dir = "dist/game"
`), 0644))

	cfg := New()
	require.NoError(t, Open(cfg, file))
	assert.Equal(t, "Test CD", cfg.Name)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, 64, cfg.MaxConns)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "dist/game", cfg.Content.Dir)
	assert.Equal(t, "cd-content", cfg.Content.Scheme)
}

func TestOpenYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cdshell.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
max_conns: 8
open: true
content:
  scheme: game
  host: assets
`), 0644))

	cfg := New()
	require.NoError(t, Open(cfg, file))
	assert.Equal(t, 8, cfg.MaxConns)
	assert.True(t, cfg.Open)
	assert.Equal(t, "game://assets/", cfg.Content.Prefix())
	assert.Equal(t, "game", cfg.Content.Dir)

	empty := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	assert.NoError(t, Open(New(), empty))
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, Open(New(), filepath.Join(dir, "missing.toml")))

	json := filepath.Join(dir, "cdshell.json")
	require.NoError(t, os.WriteFile(json, []byte(`{}`), 0644))
	assert.ErrorContains(t, Open(New(), json), "unsupported config file format")

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte(`colour = "blue"`), 0644))
	assert.Error(t, Open(New(), unknown))
}

func TestOverlay(t *testing.T) {
	cfg := New()
	cfg.Watch = true
	require.NoError(t, Overlay(cfg, &Config{Listen: ":9000", Open: true, Content: Content{Dir: "other"}}))
	assert.Equal(t, ":9000", cfg.Listen)
	assert.True(t, cfg.Open)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "Enhanced CD", cfg.Name)
	assert.Equal(t, 64, cfg.MaxConns)
	assert.Equal(t, Content{Scheme: "cd-content", Host: "localhost", Dir: "other"}, cfg.Content)
}

func TestExpandValidate(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	cfg := New()
	cfg.Content.Dir = "~/game"
	require.NoError(t, cfg.Expand())
	assert.Equal(t, filepath.Join(home, "game"), cfg.Content.Dir)

	cfg.Content.Dir = ""
	assert.Error(t, cfg.Validate())
	cfg = New()
	cfg.MaxConns = -1
	assert.Error(t, cfg.Validate())
}

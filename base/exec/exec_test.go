// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !windows

package exec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEnv(t *testing.T) {
	buf := &bytes.Buffer{}
	c := &Config{Stdout: buf, Env: map[string]string{"CDSHELL_TEST": "hello"}}
	require.NoError(t, c.Run("sh", "-c", "echo $CDSHELL_TEST"))
	assert.Equal(t, "hello\n", buf.String())
}

func TestRunStdout(t *testing.T) {
	buf := &bytes.Buffer{}
	c := &Config{Stdout: buf, Dir: "/"}
	require.NoError(t, c.Run("pwd"))
	assert.Equal(t, "/\n", buf.String())
}

func TestPrintOnly(t *testing.T) {
	c := &Config{PrintOnly: true}
	ran, err := c.Exec("this-command-does-not-exist")
	assert.NoError(t, err)
	assert.False(t, ran)
}

func TestRunError(t *testing.T) {
	err := Minor().Run("sh", "-c", "exit 3")
	assert.ErrorContains(t, err, "exit status 3")
}

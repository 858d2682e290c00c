// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(newTestRouter())
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClientInvoke(t *testing.T) {
	_, url := startHub(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, url, "")
	require.NoError(t, err)
	defer c.Close()

	res, err := c.Invoke(ctx, "echo", echoArgs{Text: "from go"})
	require.NoError(t, err)
	assert.JSONEq(t, `"from go"`, string(res))

	_, err = c.Invoke(ctx, "nope", nil)
	assert.ErrorContains(t, err, "unknown command")

	_, err = c.Invoke(ctx, "fail", nil)
	assert.EqualError(t, err, "ipc: fail: it failed")

	_, err = c.Invoke(ctx, "echo", func() {})
	assert.ErrorIs(t, err, ErrBadArgs)
}

func TestClientEvents(t *testing.T) {
	hub, url := startHub(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, url, "")
	require.NoError(t, err)
	defer c.Close()

	events := make(chan string, 1)
	c.OnEvent(func(event string, payload json.RawMessage) {
		events <- event + " " + string(payload)
	})
	require.Eventually(t, func() bool { return hub.NumClients() == 1 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Emit("content-changed", []string{"index.html"}))

	select {
	case ev := <-events:
		assert.Equal(t, `content-changed ["index.html"]`, ev)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestClientClosed(t *testing.T) {
	hub, url := startHub(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, url, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.NumClients() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Close())
	<-c.done
	_, err = c.Invoke(ctx, "echo", nil)
	assert.Error(t, err)
	c.Close()
}

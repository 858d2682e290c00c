// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/enhanced-cd/cdshell/config"
	"github.com/enhanced-cd/cdshell/ipc"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCommand(t *testing.T) {
	cmd, args := OpenCommand("darwin", "http://x/")
	assert.Equal(t, "open", cmd)
	assert.Equal(t, []string{"http://x/"}, args)

	cmd, args = OpenCommand("windows", "http://x/")
	assert.Equal(t, "rundll32", cmd)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler", "http://x/"}, args)

	cmd, _ = OpenCommand("linux", "http://x/")
	assert.Equal(t, "xdg-open", cmd)
}

func TestMakeBridgeJS(t *testing.T) {
	cfg := config.New()
	b, err := MakeBridgeJS(cfg, "ws://127.0.0.1:1234"+IPCPath)
	require.NoError(t, err)
	js := string(b)
	assert.Contains(t, js, `const socketURL = "ws://127.0.0.1:1234/__cdshell/ipc";`)
	assert.Contains(t, js, `name: "Enhanced CD",`)
	assert.NotContains(t, js, "location.reload()")

	cfg.Watch = true
	cfg.Name = `The "Best" CD`
	b, err = MakeBridgeJS(cfg, "ws://127.0.0.1:1234"+IPCPath)
	require.NoError(t, err)
	js = string(b)
	assert.Contains(t, js, `name: "The \"Best\" CD",`)
	assert.Contains(t, js, `window.cdshell.listen("content-changed", () => location.reload());`)
}

// startShell starts a shell serving a temporary game directory,
// returning the shell and the directory.
func startShell(t *testing.T, watch bool) (*Shell, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<!doctype html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.wasm"), []byte{0, 'a', 's', 'm'}, 0644))

	cfg := config.New()
	cfg.Content.Dir = dir
	cfg.Watch = watch
	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("Serve did not return after cancel")
		}
	})
	return s, dir
}

func dial(t *testing.T, s *Shell) *websocket.Conn {
	t.Helper()
	hdr := http.Header{}
	hdr.Set("Origin", "cd-content://localhost")
	conn, _, err := websocket.DefaultDialer.Dial(s.SocketURL(), hdr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestShellContent(t *testing.T) {
	s, _ := startShell(t, false)

	resp, err := http.Get(s.URL() + "index.html")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
	assert.Equal(t, "same-origin", resp.Header.Get("Cross-Origin-Opener-Policy"))
	assert.Equal(t, "require-corp", resp.Header.Get("Cross-Origin-Embedder-Policy"))
	assert.Equal(t, "<!doctype html>", string(body))

	resp, err = http.Get(s.URL())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, IndexPath, resp.Request.URL.Path)

	resp, err = http.Get(s.URL() + "index.wasm")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "application/wasm", resp.Header.Get("Content-Type"))

	resp, err = http.Get(s.URL() + "missing.js")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(s.URL() + strings.TrimPrefix(BridgePath, "/"))
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/javascript", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), s.SocketURL())

	assert.Equal(t, "cd-content://localhost/index.html", s.Content.URL("index.html"))
	assert.Equal(t, http.StatusOK, s.Content.Handle("cd-content://localhost/index.html").Status)
}

func TestShellCommands(t *testing.T) {
	s, _ := startShell(t, false)

	resp, err := http.Post(s.URL()+strings.TrimPrefix(IPCPath, "/")+"/greet", "application/json", strings.NewReader(`{"name":"Ada"}`))
	require.NoError(t, err)
	var reply ipc.Reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello, Ada! You've been greeted from Rust!", reply.Result)

	invoke := func(path, origin string) int {
		t.Helper()
		req, err := http.NewRequest(http.MethodPost, s.URL()+strings.TrimPrefix(IPCPath, "/")+path, strings.NewReader(`{"name":"Eve"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "text/plain")
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusForbidden, invoke("/greet", "https://evil.example"))
	assert.Equal(t, http.StatusOK, invoke("/greet", "cd-content://localhost"))
	assert.Equal(t, http.StatusOK, invoke("/greet", strings.TrimSuffix(s.URL(), "/")))
	assert.Equal(t, http.StatusNotFound, invoke("/some/deep/greet", ""))

	conn := dial(t, s)
	require.NoError(t, conn.WriteJSON(&ipc.Request{ID: 1, Cmd: "greet", Args: json.RawMessage(`{"name":"Grace"}`)}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, float64(1), msg["id"])
	assert.Equal(t, "Hello, Grace! You've been greeted from Rust!", msg["result"])
}

func TestShellWatch(t *testing.T) {
	s, dir := startShell(t, true)

	conn := dial(t, s)
	require.Eventually(t, func() bool { return s.Hub.NumClients() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.js"), []byte("start()"), 0644))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg struct {
		Event   string `json:"event"`
		Payload struct {
			Paths []string `json:"paths"`
		} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ContentChanged, msg.Event)
	assert.Contains(t, msg.Payload.Paths, "index.js")
}

func TestNewErrors(t *testing.T) {
	cfg := config.New()
	cfg.Content.Dir = filepath.Join(t.TempDir(), "missing")
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = config.New()
	cfg.Content.Scheme = ""
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestServeBeforeListen(t *testing.T) {
	cfg := config.New()
	cfg.Content.Dir = t.TempDir()
	s, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "", s.URL())
	assert.Error(t, s.Serve(context.Background()))
}

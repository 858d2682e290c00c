// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/enhanced-cd/cdshell/base/errors"
	"github.com/gorilla/websocket"
)

// ErrClosed is returned by [Client.Invoke] once the connection is closed.
var ErrClosed = errors.New("ipc: connection closed")

// Client is a Go client of the WebSocket command bridge, which does from
// Go what the bridge script does from a page. Use [Dial] to create one.
type Client struct {

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// done is a channel that is closed when the connection is closed.
	done chan struct{}

	// writeMu serializes writes to conn.
	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan *incoming
	onEvent func(event string, payload json.RawMessage)
}

// incoming is a message received by a [Client], which is either
// a [Reply] or an [Event].
type incoming struct {
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Dial connects to the command bridge at the given WebSocket URL and
// returns a [Client]. The origin header is only sent if it is non-empty.
func Dial(ctx context.Context, url, origin string) (*Client, error) {
	hdr := http.Header{}
	if origin != "" {
		hdr.Set("Origin", origin)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, hdr)
	if err != nil {
		return nil, err
	}
	c := &Client{conn: conn, done: make(chan struct{}), pending: map[uint64]chan *incoming{}}
	go c.readLoop()
	return c, nil
}

// OnEvent sets a callback function to be called when an event is received.
// It is called from the goroutine reading the connection.
func (c *Client) OnEvent(f func(event string, payload json.RawMessage)) {
	c.mu.Lock()
	c.onEvent = f
	c.mu.Unlock()
}

// Invoke invokes the given command with the given arguments, which are
// encoded as JSON, and returns the JSON result.
func (c *Client) Invoke(ctx context.Context, cmd string, args any) (json.RawMessage, error) {
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadArgs, err)
		}
		raw = b
	}

	ch := make(chan *incoming, 1)
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(&Request{ID: id, Cmd: cmd, Args: raw})
	c.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	select {
	case msg := <-ch:
		if msg.Error != "" {
			return nil, fmt.Errorf("ipc: %s: %s", cmd, msg.Error)
		}
		return msg.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrClosed
	}
}

// Close cleanly closes the WebSocket connection and waits
// for the reading goroutine to finish.
func (c *Client) Close() error {
	c.writeMu.Lock()
	err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	c.conn.Close()
	<-c.done
	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}
	return err
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		var msg incoming
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.mu.Lock()
		if msg.Event != "" {
			f := c.onEvent
			c.mu.Unlock()
			if f != nil {
				f(msg.Event, msg.Payload)
			}
			continue
		}
		ch := c.pending[msg.ID]
		c.mu.Unlock()
		if ch != nil {
			ch <- &msg
		}
	}
}

// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/enhanced-cd/cdshell/base/errors"
	"github.com/gorilla/websocket"
)

const (
	// sendBuffer is the number of outgoing messages buffered per client.
	sendBuffer = 64

	// closeTimeout bounds the time spent sending the close message.
	closeTimeout = time.Second
)

// Hub manages the WebSocket connections of pages, invoking the commands
// they request on its [Router] and broadcasting [Event]s to all of them.
type Hub struct {

	// Router is the router used to invoke requested commands.
	Router *Router

	// AllowedOrigins are the origins, in addition to the origin of the
	// server itself, that may connect. Pages loaded through the custom
	// content scheme have an origin like "cd-content://localhost".
	AllowedOrigins []string

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*peer]struct{}
	closed  bool
}

// NewHub returns a new [Hub] invoking commands on the given router.
func NewHub(r *Router, allowedOrigins ...string) *Hub {
	h := &Hub{Router: r, AllowedOrigins: allowedOrigins, clients: map[*peer]struct{}{}}
	h.upgrader.CheckOrigin = h.checkOrigin
	return h
}

// peer is the WebSocket connection of a single page.
type peer struct {

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// send has the encoded messages waiting to be written to conn.
	send chan []byte

	// done is closed when the connection is closed.
	done chan struct{}

	closeOnce sync.Once
}

// ServeHTTP upgrades the request to a WebSocket connection and serves
// command requests on it until it is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if errors.Log(err) != nil {
		return
	}
	c := &peer{conn: conn, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	if !h.add(c) {
		conn.Close()
		return
	}
	defer h.remove(c)
	go c.writeLoop()
	h.readLoop(r.Context(), c)
}

// NumClients returns the number of currently connected clients.
func (h *Hub) NumClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Emit broadcasts the event with the given name and payload to all
// connected clients. Clients that are too far behind miss the event.
func (h *Hub) Emit(event string, payload any) error {
	msg, err := json.Marshal(&Event{Event: event, Payload: payload})
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.queue(msg) {
			slog.Debug("ipc client is not keeping up; dropping event", "event", event)
		}
	}
	return nil
}

// Close closes the connections of all clients, and makes the hub
// refuse any new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	clients := make([]*peer, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
	return nil
}

func (h *Hub) add(c *peer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *peer) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// readLoop reads requests from the client until the connection fails,
// invoking each one on its own goroutine. Messages that are not valid
// requests get an error reply with id 0.
func (h *Hub) readLoop(ctx context.Context, c *peer) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ipc connection closed", "err", err)
			}
			return
		}
		msg, err := io.ReadAll(r)
		if err != nil {
			slog.Debug("ipc connection failed", "err", err)
			return
		}
		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			c.reply(newReply(0, nil, fmt.Errorf("%w: %w", ErrBadRequest, err)))
			continue
		}
		go func() {
			res, err := h.Router.Invoke(ctx, req.Cmd, req.Args)
			if err != nil {
				slog.Warn("ipc command failed", "cmd", req.Cmd, "err", err)
			}
			c.reply(newReply(req.ID, res, err))
		}()
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	return AllowOrigin(r, h.AllowedOrigins)
}

// reply encodes and queues the given reply.
func (c *peer) reply(reply *Reply) {
	msg, err := json.Marshal(reply)
	if err != nil {
		msg, _ = json.Marshal(newReply(reply.ID, nil, err))
	}
	if !c.queue(msg) {
		slog.Debug("ipc client is not keeping up; dropping reply", "id", reply.ID)
	}
}

// queue queues the given message for writing without blocking,
// returning false if it could not be queued.
func (c *peer) queue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// writeLoop is the only writer of the connection.
func (c *peer) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		}
	}
}

// close cleanly closes the connection, once.
func (c *peer) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(closeTimeout))
		c.conn.Close()
	})
}

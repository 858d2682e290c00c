// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package web

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/enhanced-cd/cdshell/base/errors"
	"github.com/enhanced-cd/cdshell/config"
)

// BridgeJSTmpl is the template used in [MakeBridgeJS] to build the bridge.js
// file, which pages include to invoke commands and listen to events.
var BridgeJSTmpl = template.Must(template.New("bridge.js").Parse(bridgeJS))

// BridgeJSData is the data passed to [BridgeJSTmpl].
type BridgeJSData struct {

	// Name is the JSON encoded name of the app.
	Name string

	// Socket is the JSON encoded WebSocket URL of the command bridge.
	Socket string

	// Reload is whether pages reload when the content changes.
	Reload bool
}

// MakeBridgeJS executes [BridgeJSTmpl] based on the given configuration
// information and the WebSocket URL of the command bridge.
func MakeBridgeJS(c *config.Config, socket string) ([]byte, error) {
	d := BridgeJSData{
		Name:   jsonString(c.Name),
		Socket: jsonString(socket),
		Reload: c.Watch,
	}
	b := &bytes.Buffer{}
	err := BridgeJSTmpl.Execute(b, d)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func jsonString(v any) string {
	b := errors.Log1(json.Marshal(v))
	return string(b)
}

const bridgeJS = `// cdshell command bridge.
(() => {
  const socketURL = {{.Socket}};
  const pending = new Map();
  const listeners = new Map();
  let nextID = 1;
  let socket;
  let ready;

  function connect() {
    socket = new WebSocket(socketURL);
    ready = new Promise((resolve) => socket.addEventListener("open", resolve, { once: true }));
    socket.addEventListener("message", (e) => {
      const msg = JSON.parse(e.data);
      if (msg.event) {
        for (const f of listeners.get(msg.event) || []) {
          f(msg.payload);
        }
        return;
      }
      const p = pending.get(msg.id);
      if (!p) {
        return;
      }
      pending.delete(msg.id);
      if (msg.error) {
        p.reject(new Error(msg.error));
      } else {
        p.resolve(msg.result);
      }
    });
    socket.addEventListener("close", () => {
      for (const p of pending.values()) {
        p.reject(new Error("connection to the shell closed"));
      }
      pending.clear();
      setTimeout(connect, 1000);
    });
  }
  connect();

  window.cdshell = {
    name: {{.Name}},

    async invoke(cmd, args) {
      await ready;
      const id = nextID++;
      return new Promise((resolve, reject) => {
        pending.set(id, { resolve, reject });
        socket.send(JSON.stringify({ id, cmd, args }));
      });
    },

    listen(event, f) {
      if (!listeners.has(event)) {
        listeners.set(event, []);
      }
      listeners.get(event).push(f);
      return () => listeners.set(event, listeners.get(event).filter((g) => g !== f));
    },
  };
{{if .Reload}}
  window.cdshell.listen("content-changed", () => location.reload());
{{end}}})();
`

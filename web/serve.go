// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package web implements the shell around the webview: a loopback HTTP
// server that serves the game content, the command bridge and its
// script, along with the optional content watcher and system opener.
package web

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/enhanced-cd/cdshell/base/errors"
	"github.com/enhanced-cd/cdshell/base/fsx"
	"github.com/enhanced-cd/cdshell/base/logx"
	"github.com/enhanced-cd/cdshell/commands"
	"github.com/enhanced-cd/cdshell/config"
	"github.com/enhanced-cd/cdshell/content"
	"github.com/enhanced-cd/cdshell/ipc"
	"github.com/enhanced-cd/cdshell/watch"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
)

// Paths reserved by the shell on the HTTP server. Everything else is
// served from the content directory.
const (
	// ReservedPrefix is the prefix of all of the reserved paths.
	ReservedPrefix = "/__cdshell/"

	// IPCPath is the path of the WebSocket command bridge. Commands can
	// also be invoked with POST requests to IPCPath + "/" + command.
	IPCPath = ReservedPrefix + "ipc"

	// BridgePath is the path of the bridge.js script.
	BridgePath = ReservedPrefix + "bridge.js"

	// IndexPath is the path of the app page that the server root
	// redirects to.
	IndexPath = "/index.html"
)

// ContentChanged is the event emitted to pages when the content changes.
const ContentChanged = "content-changed"

// shutdownTimeout is how long the server waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Shell is the shell around the webview of an app.
type Shell struct {

	// Config is the configuration of the shell.
	Config *config.Config

	// Content is the content request handler, which can also be
	// registered directly as the custom scheme handler of a webview.
	Content *content.Handler

	// Router is the command router.
	Router *ipc.Router

	// Hub manages the WebSocket connections of pages.
	Hub *ipc.Hub

	// root is the open content root directory.
	root io.Closer

	// ln is the listener of the server, once [Shell.Listen] is called.
	ln net.Listener

	closeOnce sync.Once
	closeErr  error
}

// New returns a new [Shell] for the given configuration, with the content
// directory opened and all of the commands registered.
func New(cfg *config.Config) (*Shell, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fsys, root, err := fsx.OpenRoot(cfg.Content.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening content directory: %w", err)
	}
	h := content.NewHandler(fsys)
	h.Prefix = cfg.Content.Prefix()
	h.Dir = strings.TrimSuffix(cfg.Content.Dir, "/")

	r := ipc.NewRouter()
	commands.Register(r)

	return &Shell{
		Config:  cfg,
		Content: h,
		Router:  r,
		Hub:     ipc.NewHub(r, cfg.Content.Origin()),
		root:    root,
	}, nil
}

// Listen starts listening on the configured address, accepting
// at most [config.Config.MaxConns] connections at once.
func (s *Shell) Listen() error {
	ln, err := net.Listen("tcp", s.Config.Listen)
	if err != nil {
		return fmt.Errorf("listen %q failed: %w", s.Config.Listen, err)
	}
	if s.Config.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.Config.MaxConns)
	}
	s.ln = ln
	return nil
}

// URL returns the URL of the app page on the HTTP server.
// It is only valid after [Shell.Listen].
func (s *Shell) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String() + "/"
}

// SocketURL returns the WebSocket URL of the command bridge.
// It is only valid after [Shell.Listen].
func (s *Shell) SocketURL() string {
	if s.ln == nil {
		return ""
	}
	return "ws://" + s.ln.Addr().String() + IPCPath
}

// Mux returns the handler of the HTTP server, serving the given
// bridge script at [BridgePath].
func (s *Shell) Mux(bridge []byte) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", s.Content)
	mux.Handle("GET /{$}", http.RedirectHandler(IndexPath, http.StatusFound))
	mux.Handle(IPCPath, s.Hub)
	mux.Handle(IPCPath+"/", ipc.RequireOrigin(http.StripPrefix(IPCPath+"/", s.Router), s.Hub.AllowedOrigins...))
	mux.HandleFunc(BridgePath, func(w http.ResponseWriter, r *http.Request) {
		errors.Log(content.OK("application/javascript", bridge).Write(w))
	})
	return mux
}

// Run listens and serves until the context is done. See [Shell.Serve].
func (s *Shell) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		s.Close()
		return err
	}
	return s.Serve(ctx)
}

// Serve serves on the listener opened by [Shell.Listen] until the context
// is done, along with the content watcher and the opener if they are
// enabled. The shell is closed when Serve returns.
func (s *Shell) Serve(ctx context.Context) error {
	defer s.Close()
	if s.ln == nil {
		return errors.New("web.Shell.Serve: called before Listen")
	}
	bridge, err := MakeBridgeJS(s.Config, s.SocketURL())
	if err != nil {
		return err
	}
	var w *watch.Watcher
	if s.Config.Watch {
		w, err = watch.New(s.Config.Content.Dir, s.contentChanged)
		if err != nil {
			return fmt.Errorf("watching content directory: %w", err)
		}
	}
	srv := &http.Server{Handler: s.Mux(bridge), ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Serve(s.ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		s.Hub.Close()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if w != nil {
		g.Go(func() error {
			defer w.Close()
			return w.Run(ctx)
		})
	}

	logx.PrintlnWarn("Serving", s.Config.Name, "at", s.URL())
	logx.PrintlnInfo("Command bridge at", s.SocketURL())
	if s.Config.Open {
		g.Go(func() error {
			errors.Log(Open(s.URL()))
			return nil
		})
	}
	return g.Wait()
}

// Close closes the listener and releases the content directory.
// It is called by [Shell.Serve] and is safe to call more than once.
func (s *Shell) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.ln != nil {
			if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				errs = append(errs, err)
			}
		}
		errs = append(errs, s.root.Close())
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

func (s *Shell) contentChanged(paths []string) {
	errors.Log(s.Hub.Emit(ContentChanged, map[string]any{"paths": paths}))
}

// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"net/http"
	"strconv"
)

// Response is the response to a content request. It mirrors
// an HTTP response so that it can be handed to webview hosts
// and written to an [http.ResponseWriter] alike.
type Response struct {

	// Status is the HTTP status code.
	Status int

	// Header contains the response headers.
	Header http.Header

	// Body is the response body.
	Body []byte
}

// OK returns a new 200 [Response] with the given content type and body,
// along with the headers that allow the content to be used from any origin
// inside of a cross-origin isolated page.
func OK(contentType string, body []byte) *Response {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Embedder-Policy", "require-corp")
	h.Set("Cross-Origin-Resource-Policy", "cross-origin")
	return &Response{Status: http.StatusOK, Header: h, Body: body}
}

// NotFound returns a new 404 [Response] with no headers and an empty body.
func NotFound() *Response {
	return &Response{Status: http.StatusNotFound, Header: http.Header{}, Body: []byte{}}
}

// Write writes the response to the given [http.ResponseWriter].
func (r *Response) Write(w http.ResponseWriter) error {
	wh := w.Header()
	for k, v := range r.Header {
		wh[k] = v
	}
	wh.Set("Content-Length", strconv.Itoa(len(r.Body)))
	w.WriteHeader(r.Status)
	_, err := w.Write(r.Body)
	return err
}

// Responder is implemented by webview hosts to receive the
// response to an asynchronously handled content request.
type Responder interface {
	Respond(resp *Response)
}

// ResponderFunc is a function that implements [Responder].
type ResponderFunc func(resp *Response)

// Respond calls f(resp).
func (f ResponderFunc) Respond(resp *Response) { f(resp) }

// HandleAsync handles the content request for the given URI in a new
// goroutine and passes the result to r. It returns immediately, and
// r.Respond is called exactly once.
func (h *Handler) HandleAsync(uri string, r Responder) {
	go func() {
		r.Respond(h.Handle(uri))
	}()
}

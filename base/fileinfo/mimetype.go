// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileinfo

import "strings"

// byExt is the extension lookup order. Matching is on the literal
// suffix of the path, so it is case sensitive.
var byExt = []struct {
	ext string
	kn  Known
}{
	{".wasm", Wasm},
	{".js", JavaScript},
	{".html", Html},
	{".css", Css},
	{".png", Png},
	{".jpg", Jpeg},
	{".jpeg", Jpeg},
	{".svg", Svg},
	{".pck", Pck},
	{".mp3", Mp3},
}

// KnownFromPath returns the [Known] type for the given file path or
// name based on its extension suffix, or [Unknown] if it is not recognized.
func KnownFromPath(path string) Known {
	for _, e := range byExt {
		if strings.HasSuffix(path, e.ext) {
			return e.kn
		}
	}
	return Unknown
}

// MimeType returns the content type to serve the file at the given
// path with, based on its extension. It always returns a value:
// unrecognized extensions get [Binary].
func MimeType(path string) string {
	return KnownFromPath(path).Mime()
}

// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileinfo

import (
	"fmt"
	"strings"
)

// Known is an enumerated list of known file types served from
// the game bundle, for which a specific content type is sent.
type Known int32

// These are the known file types, organized roughly by category.
const (
	// Unknown is a non-known file type, served as [Binary].
	Unknown Known = iota

	Wasm
	JavaScript
	Html
	Css

	Png
	Jpeg
	Svg

	// Pck is a packed game data blob, as exported for the web
	// by the Godot engine.
	Pck

	Mp3

	// KnownN is the number of known file types.
	KnownN
)

// Binary is the generic content type for all unrecognized content.
const Binary = "application/octet-stream"

// MimeInfo contains info about a known content type.
type MimeInfo struct {

	// Mime is the mime type string.
	Mime string

	// Exts are the file extensions (including the leading dot)
	// that map to this type, in order of preference.
	Exts []string
}

// KnownMimes maps from the known type into the [MimeInfo] for each
// known file type.
var KnownMimes = map[Known]MimeInfo{
	Unknown:    {Binary, nil},
	Wasm:       {"application/wasm", []string{".wasm"}},
	JavaScript: {"application/javascript", []string{".js"}},
	Html:       {"text/html", []string{".html"}},
	Css:        {"text/css", []string{".css"}},
	Png:        {"image/png", []string{".png"}},
	Jpeg:       {"image/jpeg", []string{".jpg", ".jpeg"}},
	Svg:        {"image/svg+xml", []string{".svg"}},
	Pck:        {Binary, []string{".pck"}},
	Mp3:        {"audio/mpeg", []string{".mp3"}},
}

var knownNames = [...]string{"Unknown", "Wasm", "JavaScript", "Html", "Css", "Png", "Jpeg", "Svg", "Pck", "Mp3"}

// String returns the name of the known type.
func (kn Known) String() string {
	if kn < 0 || kn >= KnownN {
		return fmt.Sprintf("Known(%d)", int32(kn))
	}
	return knownNames[kn]
}

// Mime returns the canonical mime type string for the known type,
// which is [Binary] for anything not in [KnownMimes].
func (kn Known) Mime() string {
	mt, has := KnownMimes[kn]
	if !has {
		return Binary
	}
	return mt.Mime
}

// IsMedia returns whether the known type has a binary format with
// magic numbers that can be sniffed from its content.
func (kn Known) IsMedia() bool {
	switch kn {
	case Wasm, Png, Jpeg, Mp3:
		return true
	}
	return false
}

// KnownByName looks up known file type by caps or lowercase name.
func KnownByName(name string) (Known, error) {
	for i, nm := range knownNames {
		if strings.EqualFold(nm, name) {
			return Known(i), nil
		}
	}
	return Unknown, fmt.Errorf("fileinfo.KnownByName: doesn't look like that is a known file type: %v", name)
}

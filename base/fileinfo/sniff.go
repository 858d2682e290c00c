// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileinfo

import "github.com/h2non/filetype"

// SniffLen is the number of leading bytes of a file that [Sniff] needs.
const SniffLen = 262

// Sniff returns the mime type detected from the magic numbers at the
// start of the given content, and whether any type was detected.
// The head should contain at least [SniffLen] bytes when available.
func Sniff(head []byte) (string, bool) {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "", false
	}
	return kind.MIME.Value, true
}

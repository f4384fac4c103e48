// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

const contentURIScheme = "mxc://"

// ContentURI is a Matrix media reference ("mxc://server/mediaID"),
// returned by the media upload endpoint and used in avatar_url and
// file message content.
type ContentURI struct {
	server  string
	mediaID string
}

// ParseContentURI validates the mxc:// scheme, server, and media ID.
func ParseContentURI(raw string) (ContentURI, error) {
	rest, ok := strings.CutPrefix(raw, contentURIScheme)
	if !ok {
		return ContentURI{}, fmt.Errorf("content URI must start with %q: %q", contentURIScheme, raw)
	}
	server, mediaID, ok := strings.Cut(rest, "/")
	if !ok || mediaID == "" {
		return ContentURI{}, fmt.Errorf("content URI has no media ID: %q", raw)
	}
	if strings.Contains(mediaID, "/") {
		return ContentURI{}, fmt.Errorf("content URI media ID contains '/': %q", raw)
	}
	if err := validateServer(server); err != nil {
		return ContentURI{}, fmt.Errorf("content URI %q: %w", raw, err)
	}
	return ContentURI{server: server, mediaID: mediaID}, nil
}

// MustParseContentURI is like ParseContentURI but panics on error.
func MustParseContentURI(raw string) ContentURI {
	return mustParse(raw, ParseContentURI, "MustParseContentURI")
}

func (c ContentURI) String() string {
	if c.IsZero() {
		return ""
	}
	return contentURIScheme + c.server + "/" + c.mediaID
}

// IsZero reports whether c is the zero value.
func (c ContentURI) IsZero() bool { return c.mediaID == "" }

// Server returns the origin server of the media.
func (c ContentURI) Server() ServerName { return ServerName{name: c.server} }

// MediaID returns the server-local media identifier.
func (c ContentURI) MediaID() string { return c.mediaID }

// DownloadPath returns the client-server API path that serves this
// media.
func (c ContentURI) DownloadPath() string {
	return "/_matrix/client/v1/media/download/" + c.server + "/" + c.mediaID
}

func (c ContentURI) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ContentURI) UnmarshalText(data []byte) error {
	return unmarshalText(data, c, ParseContentURI)
}

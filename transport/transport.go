// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"encoding/json"
	"io"
	"net/url"
)

// Transport issues requests. Invoke returns without waiting for the
// response; the outcome arrives through callbacks on a goroutine of the
// implementation's choosing.
//
// Implementations must invoke at most one of Success or Failure per
// call, and any Progress callbacks before it. An error return means the
// request could not be constructed (for example, an unencodable body);
// no callback fires in that case.
type Transport interface {
	Invoke(request *Request, callbacks Callbacks) (RawHandle, error)
}

// RawHandle cancels an in-flight request. Cancel must not block and
// must tolerate repeated calls and calls after completion.
type RawHandle interface {
	Cancel()
}

// Request describes one API call in wire terms. Endpoint wrappers
// build it; transports execute it.
type Request struct {
	// Descriptor names the endpoint for logs and transcripts
	// (e.g., "rooms.join").
	Descriptor string

	// Method is the HTTP method.
	Method string

	// Path is the request path, already escaped, starting with "/".
	Path string

	// Query holds query parameters. Nil for none.
	Query url.Values

	// Body is JSON-encoded as the request body. Nil for no body.
	// Mutually exclusive with Upload.
	Body any

	// Upload sends a raw body and enables progress reporting.
	Upload *Upload

	// Unauthenticated suppresses the access token (login, versions).
	Unauthenticated bool

	// Sensitive marks calls whose body or response carries credentials
	// (login, password changes). Recorders keep only the outcome of
	// such calls, never the payload.
	Sensitive bool
}

// Upload is a raw request body for media uploads.
type Upload struct {
	ContentType string
	Reader      io.Reader
	// Size is the body length in bytes, or -1 when unknown. Progress
	// fractions are only meaningful when the size is known.
	Size int64
}

// UploadProgress reports how much of an upload body has been sent.
type UploadProgress struct {
	// Fraction is Sent/Total in [0, 1], or 0 when Total is unknown.
	Fraction float64 `json:"fraction"`
	Sent     int64   `json:"sent"`
	Total    int64   `json:"total"`
}

// NewUploadProgress computes the fraction for sent of total bytes.
// A non-positive total yields a zero fraction.
func NewUploadProgress(sent, total int64) UploadProgress {
	progress := UploadProgress{Sent: sent, Total: total}
	if total > 0 {
		progress.Fraction = float64(sent) / float64(total)
		if progress.Fraction > 1 {
			progress.Fraction = 1
		}
	}
	return progress
}

// Callbacks receive the outcome of one request. Progress is only set
// for upload requests. Any argument may be nil.
type Callbacks struct {
	Success  func(payload json.RawMessage)
	Failure  func(err error)
	Progress func(progress *UploadProgress)
}

// cancelFunc adapts a function to RawHandle.
type cancelFunc func()

func (f cancelFunc) Cancel() { f() }

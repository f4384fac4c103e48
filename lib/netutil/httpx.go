// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers for the Matrix transport.
//
// Response helpers ([ReadResponse], [ErrorBody]) bound body reads at
// [MaxResponseSize] so a misbehaving homeserver cannot exhaust memory.
// They are for JSON API responses, not media downloads.
//
// [CountingReader] reports bytes consumed from a request body, which
// is how upload progress is measured.
package netutil

import (
	"io"
	"sync/atomic"
)

// MaxResponseSize bounds JSON API response reads: 64 MB. A full
// initial /sync on a large account is the biggest legitimate response
// and stays well under this.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an error response body for diagnostics. Read errors
// are ignored; a partial body is still useful in a message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}

// CountingReader wraps a reader and calls report after every Read
// that consumed bytes, with the running total. report runs on the
// goroutine doing the reading (the HTTP client's body writer).
type CountingReader struct {
	reader io.Reader
	count  atomic.Int64
	report func(total int64)
}

// NewCountingReader wraps reader. report may be nil.
func NewCountingReader(reader io.Reader, report func(total int64)) *CountingReader {
	return &CountingReader{reader: reader, report: report}
}

func (c *CountingReader) Read(buffer []byte) (int, error) {
	n, err := c.reader.Read(buffer)
	if n > 0 {
		total := c.count.Add(int64(n))
		if c.report != nil {
			c.report(total)
		}
	}
	return n, err
}

// Count returns the bytes read so far.
func (c *CountingReader) Count() int64 { return c.count.Load() }

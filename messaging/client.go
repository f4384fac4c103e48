// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/transport"
)

// Client API path prefixes.
const (
	clientV3    = "/_matrix/client/v3"
	mediaUpload = "/_matrix/media/v3/upload"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Transport executes requests. Required.
	Transport transport.Transport
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client exposes typed Matrix endpoints. Every method returns at once
// with a *dispatch.Handle and delivers exactly one outcome to its
// continuation. A Client has no per-call state and is safe for
// concurrent use.
type Client struct {
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// NewClient creates a Client over config.Transport.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Transport == nil {
		return nil, fmt.Errorf("messaging: Transport is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		dispatcher: dispatch.New(config.Transport),
		logger:     logger,
	}, nil
}

// Empty is the value delivered by endpoints whose response carries
// nothing of interest.
type Empty = struct{}

// clientPath joins escaped segments under the v3 client API. Segments are
// escaped individually so IDs containing '/' or '#' stay one segment.
func clientPath(segments ...string) string {
	var builder strings.Builder
	builder.WriteString(clientV3)
	for _, segment := range segments {
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}
	return builder.String()
}

// newTransactionID returns a fresh idempotency key for PUT sends.
// Retrying a send with the same ID is deduplicated by the server.
func newTransactionID() string {
	return "mxfacade-" + uuid.NewString()
}

// call is the common shape of every non-upload endpoint.
func call[T any](c *Client, request *transport.Request, transform dispatch.Transform[T], done func(dispatch.Result[T])) *dispatch.Handle {
	return dispatch.Invoke(c.dispatcher, request, transform, done)
}

func get(descriptor, path string, query url.Values) *transport.Request {
	return &transport.Request{Descriptor: descriptor, Method: "GET", Path: path, Query: query}
}

func put(descriptor, path string, body any) *transport.Request {
	return &transport.Request{Descriptor: descriptor, Method: "PUT", Path: path, Body: body}
}

func post(descriptor, path string, body any) *transport.Request {
	return &transport.Request{Descriptor: descriptor, Method: "POST", Path: path, Body: body}
}

func del(descriptor, path string, body any) *transport.Request {
	return &transport.Request{Descriptor: descriptor, Method: "DELETE", Path: path, Body: body}
}

// emptyObject is the body for POST endpoints that take no parameters.
// Servers reject a missing body on some of them.
var emptyObject = struct{}{}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/mxfacade/lib/clock"
	"github.com/bureau-foundation/mxfacade/lib/secret"
	"github.com/bureau-foundation/mxfacade/lib/testutil"
)

const testTimeout = 5 * time.Second

// outcome captures the terminal callback of one call.
type outcome struct {
	payload json.RawMessage
	err     error
}

func capture() (Callbacks, <-chan outcome) {
	done := make(chan outcome, 1)
	return Callbacks{
		Success: func(payload json.RawMessage) { done <- outcome{payload: payload} },
		Failure: func(err error) { done <- outcome{err: err} },
	}, done
}

func newTestHTTP(t *testing.T, serverURL string, clk clock.Clock) *HTTP {
	t.Helper()
	transport, err := NewHTTP(HTTPConfig{
		HomeserverURL:  serverURL + "/",
		Clock:          clk,
		RequestTimeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	token, err := secret.NewFromString("syt_test_token")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	transport.SetAccessToken(token)
	t.Cleanup(func() { transport.Close() })
	return transport
}

func TestHTTPSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/_matrix/client/v3/rooms/!abc:example.org/join" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("server_name"); got != "example.org" {
			t.Errorf("server_name = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer syt_test_token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "mxfacade/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		if body["reason"] != "hello" {
			t.Errorf("body = %v", body)
		}
		w.Write([]byte(`{"room_id":"!abc:example.org"}`))
	}))
	defer server.Close()

	transport := newTestHTTP(t, server.URL, clock.Fake(time.Unix(0, 0)))
	callbacks, done := capture()
	_, err := transport.Invoke(&Request{
		Descriptor: "rooms.join",
		Method:     http.MethodPost,
		Path:       "/_matrix/client/v3/rooms/" + url.PathEscape("!abc:example.org") + "/join",
		Query:      url.Values{"server_name": {"example.org"}},
		Body:       map[string]string{"reason": "hello"},
	}, callbacks)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	result := testutil.RequireReceive(t, done, testTimeout, "waiting for outcome")
	if result.err != nil {
		t.Fatalf("unexpected failure: %v", result.err)
	}
	if string(result.payload) != `{"room_id":"!abc:example.org"}` {
		t.Errorf("payload = %s", result.payload)
	}
}

func TestHTTPMatrixError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errcode":"M_LIMIT_EXCEEDED","error":"slow down","retry_after_ms":1500}`))
	}))
	defer server.Close()

	transport := newTestHTTP(t, server.URL, clock.Fake(time.Unix(0, 0)))
	callbacks, done := capture()
	if _, err := transport.Invoke(&Request{Descriptor: "sync", Method: "GET", Path: "/sync"}, callbacks); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	result := testutil.RequireReceive(t, done, testTimeout, "waiting for outcome")
	var matrixErr *MatrixError
	if !errors.As(result.err, &matrixErr) {
		t.Fatalf("error = %v, want *MatrixError", result.err)
	}
	if matrixErr.Code != ErrCodeLimitExceeded || matrixErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("MatrixError = %+v", matrixErr)
	}
	if matrixErr.RetryAfter() != 1500*time.Millisecond {
		t.Errorf("RetryAfter = %v", matrixErr.RetryAfter())
	}
	if !IsMatrixError(result.err, ErrCodeLimitExceeded) {
		t.Error("IsMatrixError = false")
	}
}

func TestHTTPNonMatrixErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	transport := newTestHTTP(t, server.URL, clock.Fake(time.Unix(0, 0)))
	callbacks, done := capture()
	if _, err := transport.Invoke(&Request{Descriptor: "sync", Method: "GET", Path: "/sync"}, callbacks); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	result := testutil.RequireReceive(t, done, testTimeout, "waiting for outcome")
	if result.err == nil {
		t.Fatal("expected failure")
	}
	var matrixErr *MatrixError
	if errors.As(result.err, &matrixErr) {
		t.Fatalf("non-JSON body decoded as MatrixError: %v", matrixErr)
	}
	if !strings.Contains(result.err.Error(), "502") || !strings.Contains(result.err.Error(), "upstream exploded") {
		t.Errorf("error = %q, want status and body", result.err)
	}
}

func TestHTTPRequiresToken(t *testing.T) {
	transport, err := NewHTTP(HTTPConfig{HomeserverURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	if transport.HasAccessToken() {
		t.Fatal("fresh transport has a token")
	}

	called := false
	handle, err := transport.Invoke(&Request{Descriptor: "whoami", Method: "GET", Path: "/whoami"}, Callbacks{
		Success: func(json.RawMessage) { called = true },
		Failure: func(error) { called = true },
	})
	if !errors.Is(err, ErrNoAccessToken) {
		t.Fatalf("error = %v, want ErrNoAccessToken", err)
	}
	if handle != nil {
		t.Error("handle returned alongside construction error")
	}
	if called {
		t.Error("callback fired for a request that was never sent")
	}
}

func TestHTTPUnauthenticatedOmitsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Authorization = %q on unauthenticated request", auth)
		}
		w.Write([]byte(`{"versions":["v1.11"]}`))
	}))
	defer server.Close()

	transport, err := NewHTTP(HTTPConfig{HomeserverURL: server.URL})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	callbacks, done := capture()
	if _, err := transport.Invoke(&Request{
		Descriptor:      "versions",
		Method:          "GET",
		Path:            "/_matrix/client/versions",
		Unauthenticated: true,
	}, callbacks); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if result := testutil.RequireReceive(t, done, testTimeout, "waiting for outcome"); result.err != nil {
		t.Fatalf("unexpected failure: %v", result.err)
	}
}

func TestHTTPUploadProgress(t *testing.T) {
	const size = 256 << 10
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "image/png" {
			t.Errorf("Content-Type = %q", got)
		}
		if r.ContentLength != size {
			t.Errorf("ContentLength = %d, want %d", r.ContentLength, size)
		}
		n, _ := io.Copy(io.Discard, r.Body)
		if n != size {
			t.Errorf("server read %d bytes, want %d", n, size)
		}
		w.Write([]byte(`{"content_uri":"mxc://example.org/abc"}`))
	}))
	defer server.Close()

	transport := newTestHTTP(t, server.URL, clock.Fake(time.Unix(0, 0)))

	var (
		mu      sync.Mutex
		reports []UploadProgress
	)
	callbacks, done := capture()
	callbacks.Progress = func(progress *UploadProgress) {
		mu.Lock()
		reports = append(reports, *progress)
		mu.Unlock()
	}
	if _, err := transport.Invoke(&Request{
		Descriptor: "media.upload",
		Method:     http.MethodPost,
		Path:       "/_matrix/media/v3/upload",
		Upload: &Upload{
			ContentType: "image/png",
			Reader:      strings.NewReader(strings.Repeat("x", size)),
			Size:        size,
		},
	}, callbacks); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	result := testutil.RequireReceive(t, done, testTimeout, "waiting for outcome")
	if result.err != nil {
		t.Fatalf("unexpected failure: %v", result.err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reports) == 0 {
		t.Fatal("no progress reports")
	}
	for index := 1; index < len(reports); index++ {
		if reports[index].Sent < reports[index-1].Sent {
			t.Errorf("progress went backwards: %+v then %+v", reports[index-1], reports[index])
		}
	}
	last := reports[len(reports)-1]
	if last.Sent != size || last.Fraction != 1 {
		t.Errorf("final report = %+v, want all bytes", last)
	}
}

func TestHTTPProgressThrottle(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	transport := &HTTP{clock: fake, progressInterval: time.Second}

	var reports []UploadProgress
	report := transport.throttle(100, func(progress *UploadProgress) {
		reports = append(reports, *progress)
	})

	report(10) // first report always passes
	report(20) // suppressed: same instant
	fake.Advance(time.Second)
	report(50)
	report(100) // final report is never suppressed

	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3: %+v", len(reports), reports)
	}
	if reports[0].Sent != 10 || reports[1].Sent != 50 || reports[2].Sent != 100 {
		t.Errorf("reports = %+v", reports)
	}
}

// blockingServer holds every request until the client goes away or
// the test ends.
func blockingServer(t *testing.T) (*httptest.Server, <-chan struct{}) {
	t.Helper()
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case arrived <- struct{}{}:
		default:
		}
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})
	return server, arrived
}

func TestHTTPRequestTimeout(t *testing.T) {
	server, arrived := blockingServer(t)
	fake := clock.Fake(time.Unix(0, 0))
	transport := newTestHTTP(t, server.URL, fake)

	callbacks, done := capture()
	if _, err := transport.Invoke(&Request{Descriptor: "sync", Method: "GET", Path: "/sync"}, callbacks); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	testutil.RequireReceive(t, arrived, testTimeout, "waiting for request to reach server")

	fake.WaitForTimers(1)
	fake.Advance(30 * time.Second)

	result := testutil.RequireReceive(t, done, testTimeout, "waiting for timeout")
	if !errors.Is(result.err, ErrRequestTimeout) {
		t.Fatalf("error = %v, want ErrRequestTimeout", result.err)
	}
}

func TestHTTPCancel(t *testing.T) {
	server, arrived := blockingServer(t)
	fake := clock.Fake(time.Unix(0, 0))
	transport := newTestHTTP(t, server.URL, fake)

	callbacks, done := capture()
	handle, err := transport.Invoke(&Request{Descriptor: "sync", Method: "GET", Path: "/sync"}, callbacks)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	testutil.RequireReceive(t, arrived, testTimeout, "waiting for request to reach server")

	handle.Cancel()
	handle.Cancel()

	result := testutil.RequireReceive(t, done, testTimeout, "waiting for cancellation")
	if !errors.Is(result.err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", result.err)
	}
	if fake.PendingCount() != 0 {
		t.Errorf("timeout timer still pending after completion")
	}
}

func TestHTTPSetAccessTokenClosesPrevious(t *testing.T) {
	transport, err := NewHTTP(HTTPConfig{HomeserverURL: "https://matrix.example.org"})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	first, _ := secret.NewFromString("first")
	second, _ := secret.NewFromString("second")

	transport.SetAccessToken(first)
	transport.SetAccessToken(second)
	if !first.Closed() {
		t.Error("replaced token was not closed")
	}
	if second.Closed() {
		t.Error("current token was closed")
	}

	transport.Close()
	if !second.Closed() {
		t.Error("Close did not release the token")
	}
	if transport.HasAccessToken() {
		t.Error("HasAccessToken after Close")
	}
}

func TestNewHTTPValidation(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "matrix.example.org"},
		{"wrong scheme", "ftp://matrix.example.org"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewHTTP(HTTPConfig{HomeserverURL: test.url}); err == nil {
				t.Errorf("NewHTTP(%q) succeeded", test.url)
			}
		})
	}
}

func TestHTTPRejectsMalformedRequests(t *testing.T) {
	transport, err := NewHTTP(HTTPConfig{HomeserverURL: "https://matrix.example.org"})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	tests := []struct {
		name    string
		request *Request
	}{
		{"no method", &Request{Path: "/x", Unauthenticated: true}},
		{"relative path", &Request{Method: "GET", Path: "x", Unauthenticated: true}},
		{"body and upload", &Request{Method: "POST", Path: "/x", Body: 1, Upload: &Upload{Reader: strings.NewReader("")}, Unauthenticated: true}},
		{"unencodable body", &Request{Method: "POST", Path: "/x", Body: make(chan int), Unauthenticated: true}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := transport.Invoke(test.request, Callbacks{}); err == nil {
				t.Error("Invoke succeeded")
			}
		})
	}
}

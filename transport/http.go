// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bureau-foundation/mxfacade/lib/clock"
	"github.com/bureau-foundation/mxfacade/lib/netutil"
	"github.com/bureau-foundation/mxfacade/lib/secret"
	"github.com/bureau-foundation/mxfacade/lib/version"
)

// HTTPConfig configures an HTTP transport.
type HTTPConfig struct {
	// HomeserverURL is the client-server API base (e.g.,
	// "https://matrix.example.org").
	HomeserverURL string
	// HTTPClient performs requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger receives request diagnostics. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Clock drives request timeouts and progress throttling. If nil,
	// clock.Real() is used.
	Clock clock.Clock
	// RequestTimeout cancels calls that run longer. Zero disables it.
	RequestTimeout time.Duration
	// ProgressInterval is the minimum spacing between upload progress
	// reports. The final report (all bytes sent) is never suppressed.
	ProgressInterval time.Duration
}

// HTTP is a Transport backed by net/http. Each Invoke runs on its own
// goroutine with its own cancellable context.
type HTTP struct {
	baseURL          string
	httpClient       *http.Client
	logger           *slog.Logger
	clock            clock.Clock
	requestTimeout   time.Duration
	progressInterval time.Duration
	userAgent        string

	tokenMu sync.RWMutex
	token   *secret.Buffer
}

// NewHTTP validates config and returns a transport without an access
// token. Call SetAccessToken before authenticated requests.
func NewHTTP(config HTTPConfig) (*HTTP, error) {
	if config.HomeserverURL == "" {
		return nil, fmt.Errorf("transport: HomeserverURL is required")
	}
	// The string form is kept and request URLs are built by
	// concatenation, so already-escaped path segments survive intact.
	parsed, err := url.Parse(config.HomeserverURL)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid HomeserverURL %q: %w", config.HomeserverURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("transport: HomeserverURL %q must use http or https", config.HomeserverURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	return &HTTP{
		baseURL:          strings.TrimRight(config.HomeserverURL, "/"),
		httpClient:       httpClient,
		logger:           logger,
		clock:            clk,
		requestTimeout:   config.RequestTimeout,
		progressInterval: config.ProgressInterval,
		userAgent:        version.UserAgent(),
	}, nil
}

// SetAccessToken installs token for authenticated requests, taking
// ownership of it. A previously installed token is closed.
func (h *HTTP) SetAccessToken(token *secret.Buffer) {
	h.tokenMu.Lock()
	previous := h.token
	h.token = token
	h.tokenMu.Unlock()
	if previous != nil && previous != token {
		previous.Close()
	}
}

// ClearAccessToken closes and removes the current token.
func (h *HTTP) ClearAccessToken() {
	h.SetAccessToken(nil)
}

// HasAccessToken reports whether authenticated requests can be issued.
func (h *HTTP) HasAccessToken() bool {
	h.tokenMu.RLock()
	defer h.tokenMu.RUnlock()
	return h.token != nil
}

// Close releases the token and idle connections. In-flight calls are
// not affected.
func (h *HTTP) Close() error {
	h.ClearAccessToken()
	h.httpClient.CloseIdleConnections()
	return nil
}

// Invoke implements Transport.
func (h *HTTP) Invoke(request *Request, callbacks Callbacks) (RawHandle, error) {
	if request.Method == "" || !strings.HasPrefix(request.Path, "/") {
		return nil, fmt.Errorf("transport: %s: malformed request (method %q, path %q)",
			request.Descriptor, request.Method, request.Path)
	}
	if request.Body != nil && request.Upload != nil {
		return nil, fmt.Errorf("transport: %s: Body and Upload are mutually exclusive", request.Descriptor)
	}

	var authorization string
	if !request.Unauthenticated {
		h.tokenMu.RLock()
		if h.token != nil {
			authorization = "Bearer " + h.token.String()
		}
		h.tokenMu.RUnlock()
		if authorization == "" {
			return nil, fmt.Errorf("%w for %s", ErrNoAccessToken, request.Descriptor)
		}
	}

	body, contentType, contentLength, err := h.requestBody(request, callbacks.Progress)
	if err != nil {
		return nil, err
	}

	requestURL := h.baseURL + request.Path
	if len(request.Query) > 0 {
		requestURL += "?" + request.Query.Encode()
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	httpRequest, err := http.NewRequestWithContext(ctx, request.Method, requestURL, body)
	if err != nil {
		cancel(err)
		return nil, fmt.Errorf("transport: %s: %w", request.Descriptor, err)
	}
	httpRequest.ContentLength = contentLength
	if contentType != "" {
		httpRequest.Header.Set("Content-Type", contentType)
	}
	if authorization != "" {
		httpRequest.Header.Set("Authorization", authorization)
	}
	httpRequest.Header.Set("User-Agent", h.userAgent)

	var timer *clock.Timer
	if h.requestTimeout > 0 {
		timer = h.clock.AfterFunc(h.requestTimeout, func() { cancel(ErrRequestTimeout) })
	}

	go func() {
		defer cancel(nil)
		payload, err := h.execute(httpRequest, request)
		if timer != nil {
			timer.Stop()
		}
		if err != nil {
			if ctx.Err() != nil {
				err = fmt.Errorf("transport: %s: %w", request.Descriptor, context.Cause(ctx))
			}
			h.logger.Debug("matrix request failed",
				"descriptor", request.Descriptor,
				"method", request.Method,
				"path", request.Path,
				"error", err,
			)
			if callbacks.Failure != nil {
				callbacks.Failure(err)
			}
			return
		}
		if callbacks.Success != nil {
			callbacks.Success(payload)
		}
	}()

	return cancelFunc(func() { cancel(context.Canceled) }), nil
}

// requestBody encodes the JSON body or wraps the upload reader. The
// returned length is -1 when unknown.
func (h *HTTP) requestBody(request *Request, progress func(*UploadProgress)) (io.Reader, string, int64, error) {
	if request.Upload != nil {
		upload := request.Upload
		if upload.Reader == nil {
			return nil, "", 0, fmt.Errorf("transport: %s: upload has no reader", request.Descriptor)
		}
		contentType := upload.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		size := upload.Size
		if size < 0 {
			size = -1
		}
		if progress == nil {
			return upload.Reader, contentType, size, nil
		}
		return netutil.NewCountingReader(upload.Reader, h.throttle(size, progress)), contentType, size, nil
	}

	if request.Body == nil {
		return nil, "", 0, nil
	}
	encoded, err := json.Marshal(request.Body)
	if err != nil {
		return nil, "", 0, fmt.Errorf("transport: %s: encoding request body: %w", request.Descriptor, err)
	}
	return bytes.NewReader(encoded), "application/json", int64(len(encoded)), nil
}

// throttle returns a byte-count callback that forwards at most one
// progress report per interval, plus the report for the final byte.
func (h *HTTP) throttle(total int64, progress func(*UploadProgress)) func(int64) {
	var last time.Time
	return func(sent int64) {
		now := h.clock.Now()
		complete := total > 0 && sent >= total
		if !complete && !last.IsZero() && now.Sub(last) < h.progressInterval {
			return
		}
		last = now
		report := NewUploadProgress(sent, total)
		progress(&report)
	}
}

// execute performs the request and maps the response: 2xx yields the
// body; anything else a *MatrixError, or a plain error when the body
// is not a Matrix error object.
func (h *HTTP) execute(httpRequest *http.Request, request *Request) (json.RawMessage, error) {
	response, err := h.httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("transport: %s %s: %w", request.Method, request.Path, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		body, err := netutil.ReadResponse(response.Body)
		if err != nil {
			return nil, fmt.Errorf("transport: reading %s response: %w", request.Descriptor, err)
		}
		return body, nil
	}

	body := []byte(netutil.ErrorBody(response.Body))
	var matrixErr MatrixError
	if jsonErr := json.Unmarshal(body, &matrixErr); jsonErr != nil || matrixErr.Code == "" {
		return nil, fmt.Errorf("transport: unexpected %d response from %s %s: %s",
			response.StatusCode, request.Method, request.Path, strings.TrimSpace(string(body)))
	}
	matrixErr.StatusCode = response.StatusCode
	return nil, &matrixErr
}

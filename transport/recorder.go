// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/bureau-foundation/mxfacade/lib/clock"
	"github.com/bureau-foundation/mxfacade/lib/codec"
)

// Outcome values in a Record.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Record is one transcript entry: a request and how it ended.
// Payloads of sensitive requests are never recorded.
type Record struct {
	Sequence   uint64     `json:"seq"`
	Descriptor string     `json:"descriptor"`
	Method     string     `json:"method"`
	Path       string     `json:"path"`
	Query      url.Values `json:"query,omitempty"`

	// StartedMS is the issue time in Unix milliseconds.
	StartedMS int64 `json:"started_ms"`
	// DurationMS is the time from issue to outcome.
	DurationMS int64 `json:"duration_ms"`

	RequestBody json.RawMessage `json:"request,omitempty"`
	// UploadType and UploadSize describe an upload body; its bytes are
	// not recorded.
	UploadType string `json:"upload_type,omitempty"`
	UploadSize int64  `json:"upload_size,omitempty"`

	Outcome   string          `json:"outcome"`
	Response  json.RawMessage `json:"response,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorCode string          `json:"errcode,omitempty"`
	Progress  int             `json:"progress_reports,omitempty"`
	Redacted  bool            `json:"redacted,omitempty"`
}

// Started returns the issue time.
func (r *Record) Started() time.Time { return time.UnixMilli(r.StartedMS) }

// Duration returns the time from issue to outcome.
func (r *Record) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// Recorder is a Transport that forwards to another transport and
// appends a Record for every completed call to a zstd-compressed CBOR
// stream. Records appear in completion order.
type Recorder struct {
	inner  Transport
	clock  clock.Clock
	logger *slog.Logger

	sequence atomic.Uint64

	mu      sync.Mutex
	encoder *zstd.Encoder
	stream  *codec.Encoder
	closed  bool
}

// RecorderConfig configures NewRecorder.
type RecorderConfig struct {
	// Clock timestamps records. If nil, clock.Real() is used.
	Clock clock.Clock
	// Logger receives write failures. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// NewRecorder wraps inner, writing the transcript to output. The
// caller must Close the recorder to flush the final zstd frame;
// output itself is not closed.
func NewRecorder(inner Transport, output io.Writer, config RecorderConfig) (*Recorder, error) {
	if inner == nil {
		return nil, errors.New("transport: recorder needs an inner transport")
	}
	encoder, err := zstd.NewWriter(output, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("transport: creating transcript compressor: %w", err)
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		inner:   inner,
		clock:   clk,
		logger:  logger,
		encoder: encoder,
		stream:  codec.NewEncoder(encoder),
	}, nil
}

// Invoke implements Transport.
func (r *Recorder) Invoke(request *Request, callbacks Callbacks) (RawHandle, error) {
	started := r.clock.Now()
	record := &Record{
		Sequence:   r.sequence.Add(1),
		Descriptor: request.Descriptor,
		Method:     request.Method,
		Path:       request.Path,
		Query:      request.Query,
		StartedMS:  started.UnixMilli(),
		Redacted:   request.Sensitive,
	}
	if request.Upload != nil {
		record.UploadType = request.Upload.ContentType
		record.UploadSize = request.Upload.Size
	}
	if request.Body != nil && !request.Sensitive {
		if encoded, err := json.Marshal(request.Body); err == nil {
			record.RequestBody = encoded
		}
	}

	var progressCount atomic.Int64
	finish := func() {
		record.DurationMS = r.clock.Now().Sub(started).Milliseconds()
		record.Progress = int(progressCount.Load())
		r.append(record)
	}

	wrapped := Callbacks{
		Success: func(payload json.RawMessage) {
			record.Outcome = OutcomeSuccess
			if !request.Sensitive {
				record.Response = payload
			}
			finish()
			if callbacks.Success != nil {
				callbacks.Success(payload)
			}
		},
		Failure: func(err error) {
			record.Outcome = OutcomeFailure
			if err != nil {
				record.Error = err.Error()
				var matrixErr *MatrixError
				if errors.As(err, &matrixErr) {
					record.ErrorCode = matrixErr.Code
				}
			}
			finish()
			if callbacks.Failure != nil {
				callbacks.Failure(err)
			}
		},
	}
	if callbacks.Progress != nil {
		wrapped.Progress = func(progress *UploadProgress) {
			progressCount.Add(1)
			callbacks.Progress(progress)
		}
	}

	return r.inner.Invoke(request, wrapped)
}

func (r *Recorder) append(record *Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if err := r.stream.Encode(record); err != nil {
		r.logger.Warn("transcript write failed",
			"descriptor", record.Descriptor,
			"error", err,
		)
	}
}

// Flush forces buffered records out to the underlying writer.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	return r.encoder.Flush()
}

// Close finishes the transcript. Calls completing afterwards are
// forwarded but not recorded.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.encoder.Close()
}

// ReadTranscript decodes every record in a transcript written by a
// Recorder.
func ReadTranscript(input io.Reader) ([]Record, error) {
	decoder, err := zstd.NewReader(input)
	if err != nil {
		return nil, fmt.Errorf("transport: opening transcript: %w", err)
	}
	defer decoder.Close()

	stream := codec.NewDecoder(decoder)
	var records []Record
	for {
		var record Record
		if err := stream.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("transport: reading transcript record %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Compile-time interface check.
var _ Transport = (*Memory)(nil)

// Memory is a scripted in-process Transport for tests. Every Invoke
// records a [*Call]; the test drives its outcome with Succeed, Fail,
// and Progress in whatever order and from whatever goroutine the
// scenario needs. Memory does not enforce the at-most-one terminal
// rule itself, so tests can also simulate a misbehaving transport.
type Memory struct {
	mu        sync.Mutex
	calls     []*Call
	pending   chan *Call
	responder func(*Call)
	reject    func(*Request) error
}

// NewMemory creates an empty scripted transport.
func NewMemory() *Memory {
	return &Memory{pending: make(chan *Call, 64)}
}

// Respond installs a function run on a new goroutine for every
// subsequent call, for tests that want an automatic server.
func (m *Memory) Respond(responder func(*Call)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = responder
}

// Reject installs a check run synchronously inside Invoke. A non-nil
// error makes Invoke fail as if the request could not be constructed.
func (m *Memory) Reject(reject func(*Request) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reject = reject
}

func (m *Memory) Invoke(request *Request, callbacks Callbacks) (RawHandle, error) {
	m.mu.Lock()
	reject := m.reject
	responder := m.responder
	m.mu.Unlock()

	if reject != nil {
		if err := reject(request); err != nil {
			return nil, err
		}
	}

	call := &Call{
		Request:   request,
		callbacks: callbacks,
		cancelled: make(chan struct{}),
	}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	select {
	case m.pending <- call:
	default:
		// Tests that never read Calls() still work; the slice keeps
		// every call.
	}

	if responder != nil {
		go responder(call)
	}
	return call, nil
}

// Calls returns every call recorded so far, in Invoke order.
func (m *Memory) Calls() []*Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]*Call, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Pending delivers calls as they are invoked. Use with
// testutil.RequireReceive when the call happens on another goroutine.
func (m *Memory) Pending() <-chan *Call {
	return m.pending
}

// Call is one recorded request on a Memory transport. It is also the
// RawHandle returned to the caller.
type Call struct {
	Request *Request

	callbacks  Callbacks
	cancelOnce sync.Once
	cancelled  chan struct{}
}

// Succeed invokes the success callback with payload (which may be nil
// to simulate a missing value).
func (c *Call) Succeed(payload json.RawMessage) {
	if c.callbacks.Success != nil {
		c.callbacks.Success(payload)
	}
}

// SucceedJSON marshals value and invokes the success callback. Panics
// if value cannot be marshaled, since that is a test bug.
func (c *Call) SucceedJSON(value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("transport: SucceedJSON: %v", err))
	}
	c.Succeed(payload)
}

// Fail invokes the failure callback with err (which may be nil).
func (c *Call) Fail(err error) {
	if c.callbacks.Failure != nil {
		c.callbacks.Failure(err)
	}
}

// Progress invokes the progress callback with report (which may be
// nil). A call without a progress callback ignores it.
func (c *Call) Progress(report *UploadProgress) {
	if c.callbacks.Progress != nil {
		c.callbacks.Progress(report)
	}
}

// HasProgress reports whether the caller registered for progress.
func (c *Call) HasProgress() bool {
	return c.callbacks.Progress != nil
}

// Cancel implements RawHandle.
func (c *Call) Cancel() {
	c.cancelOnce.Do(func() { close(c.cancelled) })
}

// Cancelled returns a channel closed when the caller cancels.
func (c *Call) Cancelled() <-chan struct{} {
	return c.cancelled
}

// IsCancelled reports whether the caller has cancelled.
func (c *Call) IsCancelled() bool {
	select {
	case <-c.cancelled:
		return true
	default:
		return false
	}
}

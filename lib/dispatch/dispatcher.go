// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/mxfacade/transport"
)

// Dispatcher issues requests on a transport and adapts their outcomes.
// It holds no per-operation state; every Invoke owns its own Handle
// and continuation, so one Dispatcher serves any number of concurrent
// operations.
type Dispatcher struct {
	transport transport.Transport
}

// New returns a Dispatcher over the given transport.
func New(transport transport.Transport) *Dispatcher {
	return &Dispatcher{transport: transport}
}

// Invoke issues request and delivers exactly one Result to
// continuation. transform converts the success payload; nil means
// [Decode]. A nil continuation discards the outcome.
//
// The returned Handle may be nil, in which case the Failure has
// already been delivered on the calling goroutine.
func Invoke[T any](d *Dispatcher, request *transport.Request, transform Transform[T], continuation func(Result[T])) *Handle {
	if transform == nil {
		transform = Decode[T]()
	}
	if continuation == nil {
		continuation = func(Result[T]) {}
	}

	handle := newHandle()
	handle.onCancel = func() { continuation(failure[T](ErrCancelled)) }

	callbacks := transport.Callbacks{
		Success: func(payload json.RawMessage) {
			handle.complete(func() { continuation(settle(payload, transform)) })
		},
		Failure: func(err error) {
			handle.complete(func() { continuation(FromOptionalError[T](err, ErrMissingErrorObject)) })
		},
	}
	return d.issue(handle, request, callbacks, func(err error) { continuation(failure[T](err)) })
}

// InvokeProgress is Invoke for uploads: continuation receives zero or
// more InProgress values in transport order, then exactly one Success
// or Failure.
func InvokeProgress[T any](d *Dispatcher, request *transport.Request, transform Transform[T], continuation func(Progress[T])) *Handle {
	if transform == nil {
		transform = Decode[T]()
	}
	if continuation == nil {
		continuation = func(Progress[T]) {}
	}

	handle := newHandle()
	handle.onCancel = func() { continuation(failure[T](ErrCancelled)) }

	callbacks := transport.Callbacks{
		Success: func(payload json.RawMessage) {
			handle.complete(func() { continuation(asProgress(settle(payload, transform))) })
		},
		Failure: func(err error) {
			handle.complete(func() { continuation(asProgress(FromOptionalError[T](err, ErrMissingErrorObject))) })
		},
		Progress: func(report *transport.UploadProgress) {
			if report == nil {
				handle.abort(func() { continuation(failure[T](ErrMissingProgress)) })
				return
			}
			snapshot := *report
			handle.progress(func() { continuation(inProgress[T](snapshot)) })
		},
	}
	return d.issue(handle, request, callbacks, func(err error) { continuation(failure[T](err)) })
}

// Reject delivers Failure(err) to continuation on the calling
// goroutine and returns a nil Handle, the same shape Invoke produces
// when the transport cannot construct a call. Endpoint wrappers use it
// for parameters that fail validation before a request exists.
func Reject[T any](continuation func(Result[T]), err error) *Handle {
	if continuation != nil {
		continuation(FromOptionalError[T](err, ErrMissingErrorObject))
	}
	return nil
}

// RejectProgress is Reject for progress continuations.
func RejectProgress[T any](continuation func(Progress[T]), err error) *Handle {
	if continuation != nil {
		continuation(asProgress(FromOptionalError[T](err, ErrMissingErrorObject)))
	}
	return nil
}

// issue hands the request to the transport. A construction error is
// delivered synchronously through fail and yields a nil Handle.
func (d *Dispatcher) issue(handle *Handle, request *transport.Request, callbacks transport.Callbacks, fail func(error)) *Handle {
	if request == nil {
		handle.complete(func() { fail(fmt.Errorf("dispatch: nil request")) })
		return nil
	}
	raw, err := d.transport.Invoke(request, callbacks)
	if err != nil {
		handle.complete(func() { fail(fmt.Errorf("dispatch: %s: %w", request.Descriptor, err)) })
		return nil
	}
	handle.attach(raw)
	return handle
}

// asProgress views a terminal Result as a terminal Progress. Both
// variants implement the two interfaces.
func asProgress[T any](result Result[T]) Progress[T] {
	if value, ok := result.Value(); ok {
		return success(value)
	}
	return failure[T](result.Err())
}

// settle turns a success payload into a Result. Every path returns a
// value: absence, transform errors, and transform panics all become
// Failures wrapping ErrMissingValue.
func settle[T any](payload json.RawMessage, transform Transform[T]) (result Result[T]) {
	if isAbsent(payload) {
		return failure[T](ErrMissingValue)
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			result = failure[T](fmt.Errorf("%w: transform panicked: %v", ErrMissingValue, recovered))
		}
	}()
	value, err := transform(payload)
	if err != nil {
		return failure[T](fmt.Errorf("%w: %w", ErrMissingValue, err))
	}
	return success(value)
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"sync"
	"sync/atomic"

	"github.com/bureau-foundation/mxfacade/transport"
)

const (
	statePending int32 = iota
	stateCompleted
	stateCancelled
)

// closedChannel is returned by Done on a nil Handle.
var closedChannel = func() chan struct{} {
	channel := make(chan struct{})
	close(channel)
	return channel
}()

// Handle is the caller's token for one in-flight operation. The
// dispatcher creates it and returns it from Invoke; the caller may keep
// it for the operation's lifetime or drop it.
//
// A nil *Handle is valid and inert. Invoke returns nil when the
// transport could not construct the request, after delivering the
// Failure synchronously.
type Handle struct {
	// state decides which of the transport's terminal callback and
	// Cancel wins. Exactly one CompareAndSwap out of statePending
	// succeeds.
	state atomic.Int32

	// ordering is held while any value is delivered, so progress
	// always precedes the terminal.
	ordering sync.Mutex

	raw      atomic.Pointer[rawHandle]
	aborted  atomic.Bool
	onCancel func()
	done     chan struct{}
}

type rawHandle struct {
	handle transport.RawHandle
	once   sync.Once
}

func (r *rawHandle) cancel() {
	r.once.Do(r.handle.Cancel)
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Cancel requests cancellation. It returns immediately: the transport
// is told to stop and the continuation receives a Failure wrapping
// ErrCancelled on another goroutine. Cancel is idempotent, and a no-op
// once the operation has completed.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	if !h.state.CompareAndSwap(statePending, stateCancelled) {
		return
	}
	go func() {
		if raw := h.raw.Load(); raw != nil {
			raw.cancel()
		}
		h.finish(h.onCancel)
	}()
}

// Cancelled reports whether Cancel took effect before the operation
// completed.
func (h *Handle) Cancelled() bool {
	return h != nil && h.state.Load() == stateCancelled
}

// Completed reports whether the transport's terminal outcome was
// accepted. A nil Handle (synchronous failure) reports true.
func (h *Handle) Completed() bool {
	return h == nil || h.state.Load() == stateCompleted
}

// Done returns a channel closed after the terminal value has been
// delivered to the continuation (and the continuation has returned).
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		return closedChannel
	}
	return h.done
}

// attach records the transport's handle. If Cancel or abort already
// won, the transport is cancelled here instead.
func (h *Handle) attach(handle transport.RawHandle) {
	if handle == nil {
		return
	}
	raw := &rawHandle{handle: handle}
	h.raw.Store(raw)
	if h.state.Load() == stateCancelled || h.aborted.Load() {
		raw.cancel()
	}
}

// progress delivers a non-terminal value unless the operation has
// already reached a terminal state.
func (h *Handle) progress(deliver func()) {
	h.ordering.Lock()
	defer h.ordering.Unlock()
	if h.state.Load() != statePending {
		return
	}
	deliver()
}

// complete delivers the transport's terminal value if it wins the race
// against Cancel and any earlier terminal callback.
func (h *Handle) complete(deliver func()) {
	if !h.state.CompareAndSwap(statePending, stateCompleted) {
		return
	}
	h.finish(deliver)
}

// abort delivers a terminal value the dispatcher produced itself while
// the transport call is still live. The transport is cancelled first so
// it does not outlive the handle.
func (h *Handle) abort(deliver func()) {
	if !h.state.CompareAndSwap(statePending, stateCompleted) {
		return
	}
	h.aborted.Store(true)
	if raw := h.raw.Load(); raw != nil {
		raw.cancel()
	}
	h.finish(deliver)
}

// finish delivers the terminal value after any in-flight progress
// delivery, then makes the handle inert. The continuation runs with
// ordering held and must not block on another delivery for the same
// operation.
func (h *Handle) finish(deliver func()) {
	h.ordering.Lock()
	defer h.ordering.Unlock()
	defer close(h.done)
	defer h.raw.Store(nil)
	deliver()
}

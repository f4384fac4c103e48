// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
)

// Wait runs an asynchronous operation to completion for callers that
// want a blocking call. start receives the continuation to pass to the
// endpoint method and returns its Handle:
//
//	roomID, err := dispatch.Wait(ctx, func(done func(dispatch.Result[ref.RoomID])) *dispatch.Handle {
//	    return client.JoinRoom(roomID, done)
//	})
//
// When ctx ends first, the operation is cancelled and Wait returns once
// the terminal value has been delivered. A cancellation caused by ctx
// reports the context's cause alongside ErrCancelled.
func Wait[T any](ctx context.Context, start func(continuation func(Result[T])) *Handle) (T, error) {
	results := make(chan Result[T], 1)
	handle := start(func(result Result[T]) { results <- result })

	select {
	case result := <-results:
		return result.Get()
	case <-ctx.Done():
		handle.Cancel()
		value, err := (<-results).Get()
		if errors.Is(err, ErrCancelled) {
			return value, fmt.Errorf("%w: %w", err, context.Cause(ctx))
		}
		return value, err
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch adapts the transport's callback convention into a
// single typed outcome per operation.
//
// Every endpoint wrapper in the facade is one call to [Invoke] (or
// [InvokeProgress] for uploads) with a [Transform] that turns the raw
// JSON payload into the domain value. The dispatcher registers success,
// failure, and progress callbacks with the transport, and delivers
// exactly one terminal [Result] (or zero or more [InProgress] values
// followed by one terminal [Progress]) to the caller's continuation. It
// returns a [*Handle] immediately; nothing here blocks.
//
// Result and Progress are sealed sum types. [Success] and [Failure]
// implement both; [InProgress] implements only Progress. A type switch
// covers every case:
//
//	switch outcome := progress.(type) {
//	case dispatch.InProgress[messaging.ContentURI]:
//	    bar.Set(outcome.Sent(), outcome.Total())
//	case dispatch.Success[messaging.ContentURI]:
//	    uri, _ := outcome.Value()
//	case dispatch.Failure[messaging.ContentURI]:
//	    return outcome.Err()
//	}
//
// or, when only one branch matters, the accessors (IsComplete,
// Fraction, Value, Err) answer without a switch and never panic.
//
// Every transport path ends in a delivered value. A nil payload, a
// transform error, or a transform panic becomes a Failure wrapping
// [ErrMissingValue]; a nil failure error becomes
// [ErrMissingErrorObject]; a nil progress object terminates the
// operation with [ErrMissingProgress]. The dispatcher never logs and
// never retries: interpreting failures is the caller's business.
//
// Cancellation after completion is a no-op. A [Handle.Cancel] that wins
// the race against the transport's terminal callback delivers exactly
// one Failure wrapping [ErrCancelled], on its own goroutine and after any
// progress delivery already in flight; every later transport callback
// for that operation is dropped.
package dispatch

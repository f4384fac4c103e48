// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging provides typed wrappers for the Matrix
// client-server API endpoints.
//
// Every [Client] method takes typed parameters (identifiers from
// lib/ref, enumerations from lib/schema, optional numbers as pointers)
// plus a continuation, and returns a [*dispatch.Handle] immediately.
// The continuation receives exactly one [dispatch.Result]; media
// uploads receive [dispatch.Progress] values instead, ending in the
// content URI. Parameters that cannot be encoded (an out-of-range
// limit, a forged enumeration value) fail synchronously: the
// continuation runs before the method returns and the handle is nil.
//
// Optional numeric parameters follow the lib/sentinel convention.
// [MessageLimit], [PublicRoomsLimit], [TypingTimeout], and
// [SyncTimeout] declare each one's legal range; a nil pointer leaves
// the parameter off the request.
//
// Callers that want blocking calls wrap a method with dispatch.Wait:
//
//	rule, err := dispatch.Wait(ctx, func(done func(dispatch.Result[schema.JoinRule])) *dispatch.Handle {
//	    return client.JoinRule(roomID, done)
//	})
//
// The Client never talks HTTP itself. It builds transport.Request
// values and hands them to whatever transport it was given: the HTTP
// transport in production, transport.Memory in tests, or a
// transport.Recorder around either.
package messaging

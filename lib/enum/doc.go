// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package enum maps closed sets of symbolic domain values to and from
// the opaque string identifiers the Matrix wire protocol uses for them.
//
// A [Table] is an ordered list of (variant, wire) pairs built once at
// package initialization and never mutated afterwards, so lookups are
// safe from any goroutine without synchronization. Two decoders sit on
// top of a table:
//
//   - [Closed] for enumerations with a fixed, exhaustive variant set.
//     Decoding an unknown wire string returns an
//     [*UnrecognizedValueError]; callers handle absence explicitly.
//
//   - [Open] for enumerations that must ingest values defined after the
//     client was built. Decoding never fails: unknown wire strings are
//     carried in a custom variant that encodes back to the original
//     string, so old clients round-trip new server values unchanged.
//
// Wire strings are compared byte for byte. No case folding or
// whitespace trimming happens here: identifiers are defined by the
// protocol, and "m.Room.message" is a different (custom) event type
// from "m.room.message".
package enum

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the Matrix client-server wire enumerations
// and their tables.
//
// Closed enumerations are integer types whose zero value is invalid:
// [JoinRule], [Visibility], [HistoryVisibility], [GuestAccess],
// [RoomPreset], [Membership], [Direction], [Presence], and
// [PushRuleKind]. Decoding a string outside the table fails with
// *enum.UnrecognizedValueError, including through UnmarshalText, so a
// JSON field with a value this client does not know is rejected rather
// than silently zeroed.
//
// Open enumerations are small comparable structs: [EventType],
// [MessageType], [LoginFlowType], and [ThirdPartyMedium]. Decoding
// never fails. A string outside the table becomes a custom value that
// encodes back to the same string, which keeps events with
// application-defined types intact when they pass through this client.
//
// Every type implements encoding.TextMarshaler and
// encoding.TextUnmarshaler through its table, so values serialize as
// their wire strings in both JSON and CBOR (via lib/codec).
//
// Wire strings are matched byte for byte. No case folding or
// whitespace trimming is done.
package schema

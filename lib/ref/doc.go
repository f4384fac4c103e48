// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated, immutable value types for Matrix
// identifiers: [UserID], [RoomID], [RoomAlias], [EventID], [DeviceID],
// [ServerName], and [ContentURI].
//
// Each type is a struct wrapping the canonical string so that a room ID
// cannot be passed where a user ID is expected. Parse functions check
// the structural format (sigil, ":server" suffix, mxc:// scheme) and
// nothing more: localpart character rules differ between servers and
// room versions, and the homeserver is the authority on them.
//
// Every type implements encoding.TextMarshaler and
// encoding.TextUnmarshaler, so fields of these types serialize as the
// plain identifier string in JSON and CBOR. Unmarshaling an empty
// string yields the zero value, which lets optional fields use
// omitempty.
package ref

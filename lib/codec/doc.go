// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration for mxfacade's binary
// artifacts, chiefly the call transcripts written by
// transport.Recorder.
//
// The Matrix API itself is JSON. CBOR is used only where mxfacade owns
// both ends of the format. Types shared between the two carry `json`
// tags only; fxamacker/cbor falls back to them, so one tag governs
// field names and omitempty in both encodings.
//
// Identifier and enumeration types (ref.RoomID, schema.JoinRule, and
// so on) keep their state in unexported fields and round-trip through
// MarshalText/UnmarshalText, which this package enables in both
// directions.
//
//	data, err := codec.Marshal(record)
//	encoder := codec.NewEncoder(compressed)
package codec

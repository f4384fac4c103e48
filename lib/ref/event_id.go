// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "fmt"

// EventID is a Matrix event ID. Room versions 4 and later use
// "$base64hash" with no server suffix; older versions use
// "$opaque:server". Both are accepted and treated as opaque.
type EventID struct {
	id string
}

// ParseEventID checks for the '$' sigil and a non-empty body.
func ParseEventID(raw string) (EventID, error) {
	if raw == "" {
		return EventID{}, fmt.Errorf("empty event ID")
	}
	if raw[0] != '$' {
		return EventID{}, fmt.Errorf("event ID must start with '$': %q", raw)
	}
	if len(raw) < 2 {
		return EventID{}, fmt.Errorf("event ID has no content after '$': %q", raw)
	}
	return EventID{id: raw}, nil
}

// MustParseEventID is like ParseEventID but panics on error.
func MustParseEventID(raw string) EventID { return mustParse(raw, ParseEventID, "MustParseEventID") }

func (e EventID) String() string { return e.id }

// IsZero reports whether e is the zero value.
func (e EventID) IsZero() bool { return e.id == "" }

func (e EventID) MarshalText() ([]byte, error) { return []byte(e.id), nil }

func (e *EventID) UnmarshalText(data []byte) error { return unmarshalText(data, e, ParseEventID) }

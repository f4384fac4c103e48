// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// RoomID is a server-assigned Matrix room ID (e.g.,
// "!opaque:example.org"). Room IDs come from the homeserver via
// createRoom, join, alias resolution, or sync; clients never mint them.
type RoomID struct {
	id string
}

// ParseRoomID validates the "!opaque:server" shape.
func ParseRoomID(raw string) (RoomID, error) {
	if _, _, err := parseSigilID(raw, '!', "room ID"); err != nil {
		return RoomID{}, err
	}
	return RoomID{id: raw}, nil
}

// MustParseRoomID is like ParseRoomID but panics on error.
func MustParseRoomID(raw string) RoomID { return mustParse(raw, ParseRoomID, "MustParseRoomID") }

func (r RoomID) String() string { return r.id }

// IsZero reports whether r is the zero value.
func (r RoomID) IsZero() bool { return r.id == "" }

func (r RoomID) MarshalText() ([]byte, error) { return []byte(r.id), nil }

func (r *RoomID) UnmarshalText(data []byte) error { return unmarshalText(data, r, ParseRoomID) }

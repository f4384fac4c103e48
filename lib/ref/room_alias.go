// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// RoomAlias is a human-readable room name that resolves to a [RoomID]
// (e.g., "#general:example.org").
type RoomAlias struct {
	alias     string
	localpart string
	server    string
}

// ParseRoomAlias validates the "#localpart:server" shape.
func ParseRoomAlias(raw string) (RoomAlias, error) {
	localpart, server, err := parseSigilID(raw, '#', "room alias")
	if err != nil {
		return RoomAlias{}, err
	}
	return RoomAlias{alias: raw, localpart: localpart, server: server}, nil
}

// MustParseRoomAlias is like ParseRoomAlias but panics on error.
func MustParseRoomAlias(raw string) RoomAlias {
	return mustParse(raw, ParseRoomAlias, "MustParseRoomAlias")
}

func (a RoomAlias) String() string { return a.alias }

// IsZero reports whether a is the zero value.
func (a RoomAlias) IsZero() bool { return a.alias == "" }

// Localpart returns the alias name without '#' and ":server". This is
// the room_alias_name parameter of createRoom.
func (a RoomAlias) Localpart() string { return a.localpart }

// Server returns the server the alias lives on.
func (a RoomAlias) Server() ServerName { return ServerName{name: a.server} }

func (a RoomAlias) MarshalText() ([]byte, error) { return []byte(a.alias), nil }

func (a *RoomAlias) UnmarshalText(data []byte) error {
	return unmarshalText(data, a, ParseRoomAlias)
}

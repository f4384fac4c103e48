// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// UserID is a Matrix user ID (e.g., "@alice:example.org").
//
// The zero value is not a valid user; use IsZero to check.
type UserID struct {
	id        string
	localpart string
	server    string
}

// ParseUserID validates the "@localpart:server" shape.
func ParseUserID(raw string) (UserID, error) {
	localpart, server, err := parseSigilID(raw, '@', "user ID")
	if err != nil {
		return UserID{}, err
	}
	return UserID{id: raw, localpart: localpart, server: server}, nil
}

// MustParseUserID is like ParseUserID but panics on error. For tests
// and static initialization.
func MustParseUserID(raw string) UserID { return mustParse(raw, ParseUserID, "MustParseUserID") }

// NewUserID builds "@localpart:server" from parts.
func NewUserID(localpart string, server ServerName) (UserID, error) {
	return ParseUserID("@" + localpart + ":" + server.String())
}

func (u UserID) String() string { return u.id }

// IsZero reports whether u is the zero value.
func (u UserID) IsZero() bool { return u.id == "" }

// Localpart returns the part between '@' and the first ':'.
func (u UserID) Localpart() string { return u.localpart }

// Server returns the homeserver name.
func (u UserID) Server() ServerName { return ServerName{name: u.server} }

func (u UserID) MarshalText() ([]byte, error) { return []byte(u.id), nil }

func (u *UserID) UnmarshalText(data []byte) error { return unmarshalText(data, u, ParseUserID) }

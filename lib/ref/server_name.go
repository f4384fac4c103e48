// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// ServerName is a Matrix server name: a hostname or IP literal with an
// optional port ("example.org", "matrix.example.org:8448").
type ServerName struct {
	name string
}

// ParseServerName validates a server name.
func ParseServerName(raw string) (ServerName, error) {
	if err := validateServer(raw); err != nil {
		return ServerName{}, err
	}
	return ServerName{name: raw}, nil
}

// MustParseServerName is like ParseServerName but panics on error.
func MustParseServerName(raw string) ServerName {
	return mustParse(raw, ParseServerName, "MustParseServerName")
}

func (s ServerName) String() string { return s.name }

// IsZero reports whether s is the zero value.
func (s ServerName) IsZero() bool { return s.name == "" }

func (s ServerName) MarshalText() ([]byte, error) { return []byte(s.name), nil }

func (s *ServerName) UnmarshalText(data []byte) error {
	return unmarshalText(data, s, ParseServerName)
}

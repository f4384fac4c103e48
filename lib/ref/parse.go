// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// parseSigilID splits a "<sigil>localpart:server" identifier. The
// localpart may itself contain colons only in opaque IDs, so the split
// is on the first colon after the sigil, matching how servers mint
// them.
func parseSigilID(raw string, sigil byte, kind string) (localpart, server string, err error) {
	if raw == "" {
		return "", "", fmt.Errorf("empty %s", kind)
	}
	if raw[0] != sigil {
		return "", "", fmt.Errorf("%s must start with '%c': %q", kind, sigil, raw)
	}
	colon := strings.IndexByte(raw, ':')
	if colon < 0 {
		return "", "", fmt.Errorf("%s missing ':server' suffix: %q", kind, raw)
	}
	if colon == 1 {
		return "", "", fmt.Errorf("%s has empty localpart: %q", kind, raw)
	}
	server = raw[colon+1:]
	if err := validateServer(server); err != nil {
		return "", "", fmt.Errorf("%s %q: %w", kind, raw, err)
	}
	return raw[1:colon], server, nil
}

// validateServer rejects empty names, whitespace, control characters,
// and Matrix sigils. Ports ("example.org:8448") are allowed.
func validateServer(server string) error {
	if server == "" {
		return fmt.Errorf("server name is empty")
	}
	for i := 0; i < len(server); i++ {
		c := server[i]
		if c <= ' ' || c == 0x7f || c == '@' || c == '#' || c == '!' || c == '$' || c == '/' {
			return fmt.Errorf("server name %q: invalid character %q at position %d", server, c, i)
		}
	}
	return nil
}

// unmarshalText is the shared UnmarshalText body: empty input yields
// the zero value, anything else goes through parse.
func unmarshalText[T any](data []byte, target *T, parse func(string) (T, error)) error {
	if len(data) == 0 {
		var zero T
		*target = zero
		return nil
	}
	parsed, err := parse(string(data))
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

func mustParse[T any](raw string, parse func(string) (T, error), name string) T {
	value, err := parse(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.%s(%q): %v", name, raw, err))
	}
	return value
}

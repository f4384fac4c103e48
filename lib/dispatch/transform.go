// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Transform converts a success payload into a domain value. An error
// means the payload does not carry the expected value; the dispatcher
// reports it as a Failure wrapping ErrMissingValue.
type Transform[T any] func(payload json.RawMessage) (T, error)

// Decode is the default transform: the payload JSON-decoded into T.
func Decode[T any]() Transform[T] {
	return func(payload json.RawMessage) (T, error) {
		var value T
		if err := json.Unmarshal(payload, &value); err != nil {
			return value, fmt.Errorf("decoding %T: %w", value, err)
		}
		return value, nil
	}
}

// Field decodes one top-level field of a JSON object payload. A
// missing or null field is an error.
func Field[T any](name string) Transform[T] {
	return func(payload json.RawMessage) (T, error) {
		var zero T
		var object map[string]json.RawMessage
		if err := json.Unmarshal(payload, &object); err != nil {
			return zero, fmt.Errorf("decoding response object: %w", err)
		}
		raw, ok := object[name]
		if !ok || isAbsent(raw) {
			return zero, fmt.Errorf("response has no %q field", name)
		}
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			return zero, fmt.Errorf("decoding field %q: %w", name, err)
		}
		return value, nil
	}
}

// Then composes a transform with a conversion of its output, such as
// an enumeration decode:
//
//	dispatch.Then(dispatch.Field[string]("join_rule"), schema.ParseJoinRule)
func Then[A, B any](first Transform[A], convert func(A) (B, error)) Transform[B] {
	return func(payload json.RawMessage) (B, error) {
		intermediate, err := first(payload)
		if err != nil {
			var zero B
			return zero, err
		}
		return convert(intermediate)
	}
}

// Discard accepts any payload. Use for endpoints whose response body is
// an empty object.
func Discard() Transform[struct{}] {
	return func(json.RawMessage) (struct{}, error) { return struct{}{}, nil }
}

// Raw returns a copy of the payload, for callers that decode later.
func Raw() Transform[json.RawMessage] {
	return func(payload json.RawMessage) (json.RawMessage, error) {
		return bytes.Clone(payload), nil
	}
}

var jsonNull = []byte("null")

// isAbsent reports whether a payload carries no value: nil, empty, or
// the JSON literal null.
func isAbsent(payload json.RawMessage) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull)
}

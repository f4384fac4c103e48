// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package enum

import "fmt"

// UnrecognizedValueError reports a lookup that found no table entry.
// Exactly one of Value (a wire string that failed to decode) or
// Variant (a domain value that failed to encode) is meaningful.
//
//	var unrecognized *enum.UnrecognizedValueError
//	if errors.As(err, &unrecognized) { ... }
type UnrecognizedValueError struct {
	// Enum is the enumeration name from the table (e.g., "join rule").
	Enum string
	// Value is the wire string that has no variant.
	Value string
	// Variant is the domain value that has no wire string, when the
	// failure happened while encoding.
	Variant any
}

func (e *UnrecognizedValueError) Error() string {
	if e.Variant != nil {
		return fmt.Sprintf("enum: %s variant %v has no wire value", e.Enum, e.Variant)
	}
	return fmt.Sprintf("enum: unrecognized %s %q", e.Enum, e.Value)
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package enum

// Closed is the codec for an exhaustive enumeration with no escape
// hatch. Decoding is partial: a wire string outside the table is an
// error the caller must handle.
type Closed[E comparable] struct {
	table *Table[E]
}

// NewClosed builds a closed codec over entries. See [New] for the
// panics on malformed tables.
func NewClosed[E comparable](name string, entries ...Entry[E]) Closed[E] {
	return Closed[E]{table: New(name, entries...)}
}

// Table returns the underlying mapping.
func (c Closed[E]) Table() *Table[E] { return c.table }

// Encode returns the wire string for variant. Every declared variant
// encodes; only a value forged by converting an arbitrary integer to
// the enum type fails, with an [*UnrecognizedValueError].
func (c Closed[E]) Encode(variant E) (string, error) {
	wire, ok := c.table.Encode(variant)
	if !ok {
		return "", &UnrecognizedValueError{Enum: c.table.name, Variant: variant}
	}
	return wire, nil
}

// Decode returns the variant for wire, or an [*UnrecognizedValueError]
// when the string is not in the table.
func (c Closed[E]) Decode(wire string) (E, error) {
	variant, ok := c.table.Decode(wire)
	if !ok {
		var zero E
		return zero, &UnrecognizedValueError{Enum: c.table.name, Value: wire}
	}
	return variant, nil
}

// MustEncode is Encode for declared variants. It panics on a forged
// value, which is only reachable through an unchecked conversion.
func (c Closed[E]) MustEncode(variant E) string {
	wire, err := c.Encode(variant)
	if err != nil {
		panic(err.Error())
	}
	return wire
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package enum

// Custom is implemented by open-enumeration types: a value that was
// decoded from an unrecognized wire string reports that string.
type Custom interface {
	comparable
	// CustomWire returns the original wire string and true when the
	// value is the custom variant.
	CustomWire() (string, bool)
}

// Open is the codec for an enumeration that absorbs unknown wire
// values into a custom variant. Both directions are total.
type Open[E Custom] struct {
	table  *Table[E]
	custom func(wire string) E
}

// NewOpen builds an open codec. custom constructs the custom variant
// for a wire string that is not in the table; it is never called for
// a string the table knows, so a custom value never shadows a known
// variant.
func NewOpen[E Custom](name string, custom func(wire string) E, entries ...Entry[E]) Open[E] {
	return Open[E]{table: New(name, entries...), custom: custom}
}

// Table returns the underlying mapping.
func (o Open[E]) Table() *Table[E] { return o.table }

// Encode returns the wire string for variant. Custom values encode to
// the string they were decoded from. A value that is neither in the
// table nor custom (the zero value) encodes to the empty string.
func (o Open[E]) Encode(variant E) string {
	if wire, ok := variant.CustomWire(); ok {
		return wire
	}
	wire, _ := o.table.Encode(variant)
	return wire
}

// Decode returns the table variant for wire, or the custom variant
// carrying wire unchanged.
func (o Open[E]) Decode(wire string) E {
	if variant, ok := o.table.Decode(wire); ok {
		return variant
	}
	return o.custom(wire)
}

// Known reports whether wire is one of the table's identifiers.
func (o Open[E]) Known(wire string) bool {
	_, ok := o.table.Decode(wire)
	return ok
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package enum

import "fmt"

// Entry pairs a domain variant with its wire identifier.
type Entry[E comparable] struct {
	Variant E
	Wire    string
}

// Table is an immutable bidirectional mapping between variants and
// wire strings. Construct with [New].
type Table[E comparable] struct {
	name     string
	entries  []Entry[E]
	toWire   map[E]string
	fromWire map[string]E
}

// New builds a table from entries in declaration order. The name is
// used in error messages (e.g., "join rule"). New panics if a variant
// or wire string appears twice or a wire string is empty: tables are
// package-level constants and a malformed one is a programming error
// that must fail at init, not at the first lookup.
func New[E comparable](name string, entries ...Entry[E]) *Table[E] {
	table := &Table[E]{
		name:     name,
		entries:  make([]Entry[E], len(entries)),
		toWire:   make(map[E]string, len(entries)),
		fromWire: make(map[string]E, len(entries)),
	}
	copy(table.entries, entries)
	for _, entry := range entries {
		if entry.Wire == "" {
			panic(fmt.Sprintf("enum: %s table has an empty wire value for %v", name, entry.Variant))
		}
		if _, exists := table.toWire[entry.Variant]; exists {
			panic(fmt.Sprintf("enum: %s table maps variant %v twice", name, entry.Variant))
		}
		if _, exists := table.fromWire[entry.Wire]; exists {
			panic(fmt.Sprintf("enum: %s table maps wire value %q twice", name, entry.Wire))
		}
		table.toWire[entry.Variant] = entry.Wire
		table.fromWire[entry.Wire] = entry.Variant
	}
	return table
}

// Name returns the human-readable enumeration name.
func (t *Table[E]) Name() string { return t.name }

// Encode returns the wire string for variant. The boolean is false
// when the variant is not in the table.
func (t *Table[E]) Encode(variant E) (string, bool) {
	wire, ok := t.toWire[variant]
	return wire, ok
}

// Decode returns the variant for a wire string. The boolean is false
// when the string is not in the table.
func (t *Table[E]) Decode(wire string) (E, bool) {
	variant, ok := t.fromWire[wire]
	return variant, ok
}

// Entries returns a copy of the table in declaration order.
func (t *Table[E]) Entries() []Entry[E] {
	entries := make([]Entry[E], len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Len returns the number of entries.
func (t *Table[E]) Len() int { return len(t.entries) }

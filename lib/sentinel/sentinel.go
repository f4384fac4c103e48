// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sentinel translates between optional numeric parameters in
// the domain API and the reserved "omit" values the wire uses for them.
//
// Domain signatures expose absence as a nil pointer. The wire (and the
// transport beneath it) expresses absence with one out-of-range value
// per semantic field: a message limit of -1 means "server default", a
// typing timeout of -1 means "no timeout". Each field declares its own
// [Field] next to the endpoint that uses it, with the legal range
// spelled out, and translation happens once at that call boundary.
//
// A Field refuses to exist if its sentinel lies inside its legal
// range, and refuses to encode a present value outside the range, so a
// legitimate value can never be read back as absent.
package sentinel

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// Number is the set of numeric kinds a Field can carry.
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float64
}

// Field describes one optional numeric parameter.
type Field[N Number] struct {
	name string
	omit N
	min  N
	max  N
}

// New declares a field. omit is the wire value meaning "absent"; min
// and max bound the legal domain, inclusive. New panics when omit is
// inside [min, max] or the range is empty. Fields are declared as
// package-level variables, so the panic happens at init.
func New[N Number](name string, omit, min, max N) Field[N] {
	if min > max {
		panic(fmt.Sprintf("sentinel: field %s has empty range [%v, %v]", name, min, max))
	}
	if omit >= min && omit <= max {
		panic(fmt.Sprintf("sentinel: field %s omit value %v is inside its legal range [%v, %v]", name, omit, min, max))
	}
	return Field[N]{name: name, omit: omit, min: min, max: max}
}

// Name returns the wire parameter name.
func (f Field[N]) Name() string { return f.name }

// Omit returns the reserved wire value meaning "absent".
func (f Field[N]) Omit() N { return f.omit }

// Valid reports whether value is inside the legal domain.
func (f Field[N]) Valid(value N) bool { return value >= f.min && value <= f.max }

// ToWire encodes an optional value. nil becomes the omit value. A
// present value outside the legal range is an error.
func (f Field[N]) ToWire(value *N) (N, error) {
	if value == nil {
		return f.omit, nil
	}
	if !f.Valid(*value) {
		return f.omit, &RangeError{Field: f.name, Value: format(*value), Min: format(f.min), Max: format(f.max)}
	}
	return *value, nil
}

// FromWire decodes a wire value. The omit value becomes nil; anything
// else is returned as present, including values outside the legal
// range (the server, not the client, is authoritative for what it
// sends).
func (f Field[N]) FromWire(wire N) *N {
	if wire == f.omit {
		return nil
	}
	value := wire
	return &value
}

// Query encodes value and, when present, sets it as a query parameter
// under the field's name. Absent values leave query untouched, which
// is how the Matrix API expresses "use the server default".
func (f Field[N]) Query(query url.Values, value *N) error {
	wire, err := f.ToWire(value)
	if err != nil {
		return err
	}
	if wire == f.omit {
		return nil
	}
	query.Set(f.name, format(wire))
	return nil
}

func format[N Number](value N) string {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Float64:
		return strconv.FormatFloat(float64(value), 'f', -1, 64)
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(uint64(value), 10)
	default:
		return strconv.FormatInt(int64(value), 10)
	}
}

// Of returns a pointer to value. Convenience for call sites passing
// literals: messaging.MessagesOptions{Limit: sentinel.Of(50)}.
func Of[N Number](value N) *N { return &value }

// RangeError reports a present value outside a field's legal domain.
type RangeError struct {
	Field string
	Value string
	Min   string
	Max   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("sentinel: %s value %s outside legal range [%s, %s]", e.Field, e.Value, e.Min, e.Max)
}

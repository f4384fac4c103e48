// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"

	"github.com/bureau-foundation/mxfacade/lib/enum"
)

// Shared String/MarshalText/UnmarshalText bodies for the enumerations
// in this package. Each exported type forwards to these with its own
// codec so the per-type methods stay one line.

func closedString[E ~int](codec enum.Closed[E], variant E, typeName string) string {
	if wire, ok := codec.Table().Encode(variant); ok {
		return wire
	}
	return fmt.Sprintf("%s(%d)", typeName, variant)
}

func closedMarshal[E comparable](codec enum.Closed[E], variant E) ([]byte, error) {
	wire, err := codec.Encode(variant)
	if err != nil {
		return nil, err
	}
	return []byte(wire), nil
}

func closedUnmarshal[E comparable](codec enum.Closed[E], text []byte, target *E) error {
	variant, err := codec.Decode(string(text))
	if err != nil {
		return err
	}
	*target = variant
	return nil
}

func openMarshal[E enum.Custom](codec enum.Open[E], variant E) ([]byte, error) {
	wire := codec.Encode(variant)
	if wire == "" {
		return nil, fmt.Errorf("schema: cannot marshal empty %s", codec.Table().Name())
	}
	return []byte(wire), nil
}

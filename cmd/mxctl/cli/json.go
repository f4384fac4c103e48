// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// JSONOutput is embedded in param structs of commands that can emit
// machine-readable output.
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"print machine-readable JSON"`
}

// WriteJSON writes value as indented JSON followed by a newline. Nil
// slices are written as [] so consumers can always iterate.
func WriteJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(normalizeNilSlice(value), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON output: %w", err)
	}
	return nil
}

func normalizeNilSlice(value any) any {
	reflected := reflect.ValueOf(value)
	if reflected.Kind() == reflect.Slice && reflected.IsNil() {
		return reflect.MakeSlice(reflected.Type(), 0, 0).Interface()
	}
	return value
}

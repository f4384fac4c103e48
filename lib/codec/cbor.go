// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	// encMode uses Core Deterministic Encoding (RFC 8949 §4.2) so equal
	// records always produce equal bytes.
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic("codec: building CBOR encoder: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Untyped maps (event content, query values decoded into any)
		// must come back as map[string]any to stay JSON-compatible.
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: building CBOR decoder: " + err.Error())
	}
}

// Marshal encodes v deterministically.
func Marshal(v any) ([]byte, error) { return encMode.Marshal(v) }

// Unmarshal decodes data into v. Unknown fields are ignored.
func Unmarshal(data []byte, v any) error { return decMode.Unmarshal(data, v) }

// Encoder writes a sequence of CBOR items to a stream.
type Encoder = cbor.Encoder

// Decoder reads a sequence of CBOR items from a stream. Decode returns
// io.EOF after the last complete item.
type Decoder = cbor.Decoder

// NewEncoder returns a stream encoder over w.
func NewEncoder(w io.Writer) *Encoder { return encMode.NewEncoder(w) }

// NewDecoder returns a stream decoder over r.
func NewDecoder(r io.Reader) *Decoder { return decMode.NewDecoder(r) }

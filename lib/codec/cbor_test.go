// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/bureau-foundation/mxfacade/lib/ref"
)

type callEntry struct {
	Descriptor string            `json:"descriptor"`
	RoomID     ref.RoomID        `json:"room_id"`
	Attempts   int               `json:"attempts,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}

func mustRoom(t *testing.T, raw string) ref.RoomID {
	t.Helper()
	roomID, err := ref.ParseRoomID(raw)
	if err != nil {
		t.Fatal(err)
	}
	return roomID
}

func TestIdentifiersRoundTripAsText(t *testing.T) {
	original := callEntry{Descriptor: "rooms.join", RoomID: mustRoom(t, "!abc:example.org"), Attempts: 2}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Contains(data, []byte("!abc:example.org")) {
		t.Errorf("room ID not encoded as text: %x", data)
	}

	var decoded callEntry
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.RoomID != original.RoomID || decoded.Descriptor != "rooms.join" || decoded.Attempts != 2 {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestJSONTagsControlNamesAndOmission(t *testing.T) {
	data, err := Marshal(callEntry{Descriptor: "account.whoami", RoomID: mustRoom(t, "!r:example.org")})
	if err != nil {
		t.Fatal(err)
	}
	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatal(err)
	}
	if _, ok := generic["descriptor"]; !ok {
		t.Errorf("json tag name not used: %v", generic)
	}
	for _, omitted := range []string{"attempts", "headers"} {
		if _, ok := generic[omitted]; ok {
			t.Errorf("%s should be omitted: %v", omitted, generic)
		}
	}
}

func TestDeterministicMapOrder(t *testing.T) {
	entry := callEntry{
		Descriptor: "media.upload",
		RoomID:     mustRoom(t, "!r:example.org"),
		Headers:    map[string]string{"z": "1", "a": "2", "m": "3", "c": "4"},
	}
	first, err := Marshal(entry)
	if err != nil {
		t.Fatal(err)
	}
	for range 20 {
		again, err := Marshal(entry)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("encoding is not deterministic")
		}
	}
}

func TestStreamEndsWithEOF(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, descriptor := range []string{"rooms.create", "events.send", "rooms.leave"} {
		if err := encoder.Encode(callEntry{Descriptor: descriptor, RoomID: mustRoom(t, "!r:example.org")}); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	var descriptors []string
	for {
		var entry callEntry
		err := decoder.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		descriptors = append(descriptors, entry.Descriptor)
	}
	if len(descriptors) != 3 || descriptors[1] != "events.send" {
		t.Errorf("decoded %v", descriptors)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	var entry callEntry
	if err := Unmarshal([]byte{0xff, 0xfe, 0x00}, &entry); err == nil {
		t.Error("Unmarshal accepted invalid CBOR")
	}
}

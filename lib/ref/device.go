// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "fmt"

// DeviceID is an opaque server-assigned device identifier. It has no
// structure to validate; the type only keeps device IDs apart from
// other strings (user IDs, access tokens) at compile time.
type DeviceID struct {
	id string
}

// ParseDeviceID rejects only the empty string.
func ParseDeviceID(raw string) (DeviceID, error) {
	if raw == "" {
		return DeviceID{}, fmt.Errorf("device ID is empty")
	}
	return DeviceID{id: raw}, nil
}

func (d DeviceID) String() string { return d.id }

// IsZero reports whether d is the zero value.
func (d DeviceID) IsZero() bool { return d.id == "" }

func (d DeviceID) MarshalText() ([]byte, error) { return []byte(d.id), nil }

func (d *DeviceID) UnmarshalText(data []byte) error { return unmarshalText(data, d, ParseDeviceID) }

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"strconv"
	"sync/atomic"
)

var sequence atomic.Uint64

// UniqueID returns prefix followed by a process-wide counter
// ("room-1", "room-2", ...). Tests use it for transaction IDs and
// message bodies that must not collide across parallel subtests.
func UniqueID(prefix string) string {
	return prefix + "-" + strconv.FormatUint(sequence.Add(1), 10)
}

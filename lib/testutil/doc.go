// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the
// select-with-timeout pattern so tests waiting on continuations and
// handles do not call time.After themselves. They are the only place
// tests use real wall-clock timeouts; everything else takes a
// lib/clock.FakeClock.
//
// [UniqueID] produces distinct transaction IDs and message bodies
// without consulting the time.
//
// All helpers call t.Fatalf on failure.
package testutil

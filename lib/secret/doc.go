// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds Matrix access tokens and passwords in memory
// that the Go runtime never sees.
//
// A [Buffer] is an anonymous mmap region locked into RAM (mlock) and
// excluded from core dumps (MADV_DONTDUMP). Close zeroes, unlocks, and
// unmaps it. The HTTP transport keeps its bearer token in a Buffer and
// only materializes a heap string for the Authorization header of each
// request.
//
// [ReadFromPath] loads a token file (or stdin for "-") and [WriteFile]
// stores one with owner-only permissions, which is how mxctl persists
// the result of a login.
//
// Depends on golang.org/x/sys/unix.
package secret

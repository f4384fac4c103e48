// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import "github.com/bureau-foundation/mxfacade/lib/sentinel"

// Optional numeric parameters. Each uses -1 as its "absent" wire value;
// absent parameters are left off the request so the server applies its
// own default.
var (
	// MessageLimit caps events per /messages page.
	MessageLimit = sentinel.New[int]("limit", -1, 1, 1000)

	// PublicRoomsLimit caps entries per public room directory page.
	PublicRoomsLimit = sentinel.New[int]("limit", -1, 1, 500)

	// TypingTimeout is how long a typing notification lasts, in
	// milliseconds. Absent means the server's default.
	TypingTimeout = sentinel.New[int64]("timeout", -1, 1, 120_000)

	// SyncTimeout is how long /sync long-polls, in milliseconds. Zero
	// returns immediately; absent means no long-poll parameter at all.
	SyncTimeout = sentinel.New[int64]("timeout", -1, 0, 300_000)
)

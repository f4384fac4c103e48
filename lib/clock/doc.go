// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets time-dependent code take its time source as a
// parameter. The HTTP transport uses it for request deadlines
// ([Clock.AfterFunc]) and for throttling upload progress reports
// ([Clock.Now]); the transcript recorder stamps records with Now.
//
// Production code uses [Real]. Tests use [Fake], which stands still
// until [FakeClock.Advance] is called:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	transport := transport.NewHTTP(server.URL, transport.WithClock(fake))
//	// ... issue a request ...
//	fake.WaitForTimers(1)
//	fake.Advance(30 * time.Second) // fires the request deadline
package clock

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the subset of package time that mxfacade components use.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f on its own goroutine (Real) or during Advance
	// (Fake) once d has elapsed.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a cancellable AfterFunc registration.
type Timer struct {
	stop func() bool
}

// Stop prevents the timer from firing. It returns false if the timer
// already fired or was stopped.
func (t *Timer) Stop() bool { return t.stop() }

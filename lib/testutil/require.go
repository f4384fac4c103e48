// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch, failing the test if
// none arrives within timeout or ch is closed first.
//
//	result := testutil.RequireReceive(t, results, time.Second, "join result")
func RequireReceive[T any](t TB, ch <-chan T, timeout time.Duration, msgAndArgs ...any) T {
	t.Helper()
	timer := time.NewTimer(timeout) //nolint:realclock test hang prevention
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed before a value arrived: %s", describe(msgAndArgs))
		}
		return value
	case <-timer.C:
		t.Fatalf("no value within %v: %s", timeout, describe(msgAndArgs))
	}
	panic("unreachable")
}

// RequireSend delivers value on ch, failing the test if no receiver
// takes it within timeout.
func RequireSend[T any](t TB, ch chan<- T, value T, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	timer := time.NewTimer(timeout) //nolint:realclock test hang prevention
	defer timer.Stop()
	select {
	case ch <- value:
	case <-timer.C:
		t.Fatalf("send not accepted within %v: %s", timeout, describe(msgAndArgs))
	}
}

// RequireClosed waits for ch to close, as a Handle's Done channel does
// once its operation settles.
//
//	testutil.RequireClosed(t, handle.Done(), time.Second, "handle settled")
func RequireClosed(t TB, ch <-chan struct{}, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	timer := time.NewTimer(timeout) //nolint:realclock test hang prevention
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
		t.Fatalf("channel still open after %v: %s", timeout, describe(msgAndArgs))
	}
}

// describe renders the optional trailing message: nothing, a value, or
// a format string with arguments.
func describe(msgAndArgs []any) string {
	switch {
	case len(msgAndArgs) == 0:
		return "(no message)"
	case len(msgAndArgs) == 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}

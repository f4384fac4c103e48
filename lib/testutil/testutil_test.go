// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// recorder captures Fatalf instead of stopping the test. Fatalf panics
// so the helper's control flow ends the way runtime.Goexit would.
type recorder struct {
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

func capture(run func(t TB)) (message string) {
	r := &recorder{}
	defer func() {
		if recovered := recover(); recovered != nil && recovered != r {
			panic(recovered)
		}
		message = r.message
	}()
	run(r)
	return ""
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}

	message := capture(func(tb TB) { RequireReceive(tb, make(chan int), time.Millisecond, "waiting for %s", "join") })
	if !strings.Contains(message, "waiting for join") {
		t.Errorf("timeout message = %q", message)
	}

	closed := make(chan int)
	close(closed)
	message = capture(func(tb TB) { RequireReceive(tb, closed, time.Second) })
	if !strings.Contains(message, "closed") || !strings.Contains(message, "(no message)") {
		t.Errorf("closed message = %q", message)
	}
}

func TestRequireSendAndClosed(t *testing.T) {
	ch := make(chan string, 1)
	RequireSend(t, ch, "sent", time.Second)
	if <-ch != "sent" {
		t.Error("value not delivered")
	}
	if message := capture(func(tb TB) { RequireSend(tb, make(chan string), "x", time.Millisecond) }); message == "" {
		t.Error("RequireSend did not fail on a blocked channel")
	}

	done := make(chan struct{})
	close(done)
	RequireClosed(t, done, time.Second)
	if message := capture(func(tb TB) { RequireClosed(tb, make(chan struct{}), time.Millisecond, 42) }); !strings.Contains(message, "42") {
		t.Errorf("RequireClosed message = %q", message)
	}
}

func TestUniqueID(t *testing.T) {
	first, second := UniqueID("txn"), UniqueID("txn")
	if first == second || !strings.HasPrefix(first, "txn-") {
		t.Errorf("UniqueID = %q, %q", first, second)
	}
}

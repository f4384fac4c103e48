// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNowAdvances(t *testing.T) {
	fake := Fake(epoch)
	if !fake.Now().Equal(epoch) {
		t.Fatalf("Now() = %v", fake.Now())
	}
	fake.Advance(90 * time.Second)
	if got := fake.Now().Sub(epoch); got != 90*time.Second {
		t.Errorf("elapsed = %v", got)
	}
}

func TestFakeAfterFuncFiresInDeadlineOrder(t *testing.T) {
	fake := Fake(epoch)
	var order []int
	fake.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	fake.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	fake.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	fake.Advance(500 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("fired early: %v", order)
	}
	fake.Advance(5 * time.Second)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
	if fake.PendingCount() != 0 {
		t.Errorf("PendingCount = %d", fake.PendingCount())
	}
}

func TestFakeTimerStop(t *testing.T) {
	fake := Fake(epoch)
	var fired atomic.Bool
	timer := fake.AfterFunc(time.Second, func() { fired.Store(true) })
	if !timer.Stop() {
		t.Error("first Stop returned false")
	}
	if timer.Stop() {
		t.Error("second Stop returned true")
	}
	fake.Advance(time.Minute)
	if fired.Load() {
		t.Error("stopped timer fired")
	}
}

func TestFakeStopAfterFire(t *testing.T) {
	fake := Fake(epoch)
	timer := fake.AfterFunc(time.Second, func() {})
	fake.Advance(time.Second)
	if timer.Stop() {
		t.Error("Stop after fire returned true")
	}
}

func TestFakeNonPositiveRunsImmediately(t *testing.T) {
	fake := Fake(epoch)
	ran := false
	fake.AfterFunc(0, func() { ran = true })
	if !ran {
		t.Error("AfterFunc(0) did not run synchronously")
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	fake := Fake(epoch)
	registered := make(chan struct{})
	go func() {
		fake.AfterFunc(time.Second, func() {})
		close(registered)
	}()
	fake.WaitForTimers(1)
	<-registered
	if fake.PendingCount() != 1 {
		t.Errorf("PendingCount = %d", fake.PendingCount())
	}
}

func TestImplementsClock(t *testing.T) {
	var _ Clock = Fake(epoch)
	var _ Clock = Real()
}

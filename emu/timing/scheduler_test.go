package timing

import (
	"testing"
	"time"
)

func TestDelayUntilPastDeadlineReturnsImmediately(t *testing.T) {
	s := New()
	start := time.Now()
	res := s.DelayUntil(start.Add(-time.Second))
	if res != Reached {
		t.Errorf("DelayUntil on a past deadline = %v, want Reached", res)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("DelayUntil on a past deadline should not block")
	}
}

func TestDelayUntilWaitsForDeadline(t *testing.T) {
	s := New()
	start := time.Now()
	target := start.Add(20 * time.Millisecond)
	res := s.DelayUntil(target)
	if res != Reached {
		t.Errorf("DelayUntil = %v, want Reached", res)
	}
	if time.Since(start) < 15*time.Millisecond {
		t.Errorf("DelayUntil returned too early")
	}
}

func TestCancelInterruptsDelayUntil(t *testing.T) {
	s := New()
	done := make(chan Result, 1)
	go func() {
		done <- s.DelayUntil(time.Now().Add(time.Second))
	}()
	time.Sleep(10 * time.Millisecond)
	s.Cancel()
	select {
	case res := <-done:
		if res != Canceled {
			t.Errorf("DelayUntil after Cancel = %v, want Canceled", res)
		}
	case <-time.After(time.Second):
		t.Fatal("Cancel did not unblock DelayUntil")
	}
}

func TestDeadlineForIsMonotonicInWordTimes(t *testing.T) {
	s := New()
	d0 := s.DeadlineFor(0)
	d1 := s.DeadlineFor(108)
	if !d1.After(d0) {
		t.Errorf("DeadlineFor(108) must be after DeadlineFor(0)")
	}
}

func TestEventListFiresInOrder(t *testing.T) {
	el := &EventList{}
	var fired []int
	el.AddEvent("a", func(arg int) { fired = append(fired, arg) }, 5, 1)
	el.AddEvent("a", func(arg int) { fired = append(fired, arg) }, 2, 2)
	el.AddEvent("a", func(arg int) { fired = append(fired, arg) }, 10, 3)

	el.Advance(2)
	if len(fired) != 1 || fired[0] != 2 {
		t.Fatalf("after Advance(2), fired=%v, want [2]", fired)
	}
	el.Advance(3)
	if len(fired) != 2 || fired[1] != 1 {
		t.Fatalf("after Advance(3) more, fired=%v, want [2 1]", fired)
	}
	el.Advance(5)
	if len(fired) != 3 || fired[2] != 3 {
		t.Fatalf("after Advance(5) more, fired=%v, want [2 1 3]", fired)
	}
	if el.AnyPending() {
		t.Errorf("expected no pending events")
	}
}

func TestCancelEventRemovesOnlyMatching(t *testing.T) {
	el := &EventList{}
	var fired []int
	el.AddEvent("dev1", func(arg int) { fired = append(fired, arg) }, 3, 100)
	el.AddEvent("dev2", func(arg int) { fired = append(fired, arg) }, 3, 200)
	el.CancelEvent("dev1", 100)
	el.Advance(3)
	if len(fired) != 1 || fired[0] != 200 {
		t.Errorf("fired=%v, want [200]", fired)
	}
}

func TestZeroDelayFiresSynchronously(t *testing.T) {
	el := &EventList{}
	called := false
	el.AddEvent("x", func(int) { called = true }, 0, 0)
	if !called {
		t.Errorf("zero-delay event should fire synchronously")
	}
	if el.AnyPending() {
		t.Errorf("zero-delay event should not be queued")
	}
}

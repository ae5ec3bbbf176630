package view

import (
	"testing"
	"time"
)

func TestManualTimersFireInOrder(t *testing.T) {
	var m ManualTimers
	var got []string
	m.AfterFunc(200*time.Millisecond, func() { got = append(got, "b") })
	m.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	stopped := m.AfterFunc(150*time.Millisecond, func() { got = append(got, "x") })
	if !stopped.Stop() {
		t.Fatal("expected first stop to succeed")
	}
	if stopped.Stop() {
		t.Fatal("expected second stop to report false")
	}

	m.Advance(150 * time.Millisecond)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected fired timers %v", got)
	}
	if m.Pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", m.Pending())
	}

	m.Advance(time.Second)
	if len(got) != 2 || got[1] != "b" {
		t.Fatalf("unexpected fired timers %v", got)
	}
}

func TestRealAfterFunc(t *testing.T) {
	done := make(chan struct{})
	RealAfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

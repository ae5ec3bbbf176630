package view

import (
	"sort"
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via RealAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc runs callbacks on the runtime timer.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualTimers is an AfterFunc driven by Advance instead of the wall clock.
type ManualTimers struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	owner *ManualTimers
	at    time.Duration
	seq   int
	fn    func()
	done  bool
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// AfterFunc implements the AfterFunc signature.
func (m *ManualTimers) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{owner: m, at: m.now + d, seq: m.seq, fn: f}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves the clock forward and runs every timer that came due, in
// deadline order. Callbacks run on the caller's goroutine.
func (m *ManualTimers) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	now := m.now
	var due []*manualTimer
	var keep []*manualTimer
	for _, t := range m.pending {
		switch {
		case t.done:
		case t.at <= now:
			t.done = true
			due = append(due, t)
		default:
			keep = append(keep, t)
		}
	}
	m.pending = keep
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending counts timers that have neither fired nor been stopped.
func (m *ManualTimers) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.done {
			n++
		}
	}
	return n
}

package sched

import (
	"sync"
	"time"
)

// Manual is a Scheduler under caller control.
// Scheduled functions run only when the clock is advanced with [Manual.Advance],
// making timing-dependent behavior fully deterministic.
//
// The zero value is a valid scheduler positioned at time zero.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
	seq    int
}

var _ Scheduler = (*Manual)(nil)

type manualTimer struct {
	m   *Manual
	due time.Duration
	seq int
	fn  func()

	fired   bool
	stopped bool
}

// Stop cancels the timer,
// reporting whether it was stopped before firing.
func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc schedules fn to run when the clock advances past d from now.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{
		m:   m,
		due: m.now + d,
		seq: m.seq,
		fn:  fn,
	}
	m.seq++
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d,
// running every timer that comes due, in due order.
// Functions scheduled by a running timer are themselves run
// if they come due within the same advance,
// so chained timers unwind fully.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d

	for {
		t := m.nextDueLocked(target)
		if t == nil {
			break
		}

		if t.due > m.now {
			m.now = t.due
		}
		t.fired = true

		// Run without the lock; fn may schedule more timers.
		m.mu.Unlock()
		t.fn()
		m.mu.Lock()
	}

	m.now = target
	m.mu.Unlock()
}

// nextDueLocked returns the earliest live timer due at or before target,
// breaking ties by scheduling order.
func (m *Manual) nextDueLocked(target time.Duration) *manualTimer {
	var next *manualTimer
	for _, t := range m.timers {
		if t.fired || t.stopped || t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

// Pending reports the number of timers that have been scheduled
// but have neither fired nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// Package sched provides the timer scheduling capability
// used by page behaviors with delayed or repeating work.
//
// Components take a [Scheduler] as an explicit collaborator
// instead of reaching for package time directly,
// so that their timing behavior is testable
// without waiting on real clocks.
package sched

import "time"

// Timer is a handle to a single scheduled function.
type Timer interface {
	// Stop cancels the timer,
	// reporting whether it was stopped
	// before the function was run.
	Stop() bool
}

// Scheduler runs functions after a delay.
type Scheduler interface {
	// AfterFunc schedules fn to run once
	// after at least d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

// System is a Scheduler backed by runtime timers.
// The zero value is ready to use.
type System struct{}

var _ Scheduler = System{}

// AfterFunc schedules fn on its own goroutine with [time.AfterFunc].
func (System) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

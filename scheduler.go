package verdant

import (
	"time"
)

// Cancel stops a scheduled callback. It reports whether the callback was
// stopped before it ran. Calling it more than once is safe.
type Cancel func() bool

// Scheduler runs callbacks after a delay.
//
// Containers never sleep or start timers themselves; they ask a Scheduler,
// which lets a session route every timer fire through its mailbox and lets
// tests advance virtual time.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Cancel
}

// TimerScheduler is the wall-clock Scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

// NewTimerScheduler returns a Scheduler using real timers.
func NewTimerScheduler() TimerScheduler {
	return TimerScheduler{}
}

// Now returns the current wall-clock time.
func (TimerScheduler) Now() time.Time {
	return time.Now()
}

// After runs fn on its own goroutine once d has elapsed.
func (TimerScheduler) After(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

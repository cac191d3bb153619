package mode

import "time"

// TimerHandle is a scheduled one-shot callback that can be cancelled
// before it fires.
type TimerHandle interface {
	// Stop cancels the pending callback. It reports whether the stop
	// prevented the callback from firing.
	Stop() bool
}

// Scheduler creates cancellable one-shot timers. The production
// implementation delegates to time.AfterFunc; tests substitute a manual
// scheduler and fire deadlines on a virtual clock, so the debounce
// invariant is testable without wall-clock waits.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) TimerHandle
}

// RealScheduler implements Scheduler with time.AfterFunc.
type RealScheduler struct{}

// AfterFunc schedules fn to run once after d.
func (RealScheduler) AfterFunc(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}

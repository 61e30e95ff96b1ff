package debounce

import (
	"sync"
	"time"
)

// Scheduler is a single-slot pending-write scheduler: at most one
// write is pending at a time, and each new request cancels and
// replaces the one before it. Rapid edits inside the delay window
// collapse into a single fire of the latest function.
type Scheduler struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewScheduler(delay time.Duration) *Scheduler {
	return &Scheduler{delay: delay}
}

// Schedule replaces any pending write with fn. fn runs on the timer
// goroutine after the delay elapses without a superseding call.
func (s *Scheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, fn)
}

// Stop cancels the pending write, if any. Used on teardown; a write
// already dispatched is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Package scheduler runs one-shot delayed tasks against an injectable clock.
package scheduler

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is a pending delayed call.
type Task interface {
	// Stop cancels the call. It reports false if the call already ran or
	// was stopped before.
	Stop() bool
}

type Scheduler struct {
	clock clockwork.Clock
}

// New returns a scheduler driven by clock; a nil clock means wall time.
func New(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{clock: clock}
}

// After arranges for fn to run once, in its own goroutine, after d.
func (s *Scheduler) After(d time.Duration, fn func()) Task {
	return s.clock.AfterFunc(d, fn)
}

func (s *Scheduler) Clock() clockwork.Clock {
	return s.clock
}

// Group stops several tasks together.
type Group []Task

func (g Group) Stop() bool {
	stopped := false
	for _, t := range g {
		if t.Stop() {
			stopped = true
		}
	}
	return stopped
}

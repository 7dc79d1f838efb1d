// Package drivertest provides a manually advanced driver.Scheduler for tests.
package drivertest

import (
	"time"

	"github.com/pixil98/dino-arena/internal/driver"
)

// Scheduler is a manual clock. Callbacks run synchronously from Advance, on the
// calling goroutine, in deadline order.
type Scheduler struct {
	now    time.Duration
	seq    int
	timers []*timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

type timer struct {
	at   time.Duration
	seq  int
	fn   func()
	done bool
}

func (t *timer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (s *Scheduler) AfterFunc(d time.Duration, fn func()) driver.Timer {
	t := &timer{at: s.now + d, seq: s.seq, fn: fn}
	s.seq++
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that falls due,
// including ones armed by callbacks along the way.
func (s *Scheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		next := s.next(end)
		if next == nil {
			break
		}
		s.now = next.at
		next.done = true
		next.fn()
	}
	s.now = end
}

// Now returns the time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending counts timers that have neither fired nor been stopped.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (s *Scheduler) next(end time.Duration) *timer {
	var best *timer
	for _, t := range s.timers {
		if t.done || t.at > end {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

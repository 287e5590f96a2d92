// Package spotlight drives the timed rotation of the featured taxonomy
// entry. The scheduler is a thin wall-clock abstraction: it owns a single
// re-arming timer and always dispatches to the most recently bound callback.
package spotlight

import (
	"sync"
	"time"
)

// DefaultInterval is the wall-clock period between spotlight advances.
const DefaultInterval = 60 * time.Second

// timer is the cancellable handle held between ticks.
type timer interface {
	Stop() bool
}

// timerFactory arms a one-shot timer. Tests substitute a virtual clock here.
type timerFactory func(d time.Duration, f func()) timer

func afterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// Scheduler rotates a spotlight over a sequence of the given length.
// Rotation only makes sense with at least two entries; Schedule on a
// shorter sequence is a no-op. Schedule and Cancel are both idempotent,
// and a pending tick never fires once Cancel has run.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	length   int
	callback func()
	newTimer timerFactory
	active   timer
	gen      int // bumped on every schedule/cancel; stale ticks check it and bail
}

// New creates a scheduler for a sequence of the given length. The callback
// can be rebound later with SetCallback; ticks always call the latest one.
func New(length int, callback func()) *Scheduler {
	return &Scheduler{
		interval: DefaultInterval,
		length:   length,
		callback: callback,
		newTimer: afterFunc,
	}
}

// SetCallback rebinds the tick callback. Subsequent ticks invoke the new
// function, including a tick that is already armed.
func (s *Scheduler) SetCallback(f func()) {
	s.mu.Lock()
	s.callback = f
	s.mu.Unlock()
}

// SetLength updates the sequence length. It does not rearm; callers decide
// whether to Schedule again.
func (s *Scheduler) SetLength(n int) {
	s.mu.Lock()
	s.length = n
	s.mu.Unlock()
}

// Schedule cancels any prior timer and arms a fresh one. No-op when the
// sequence has fewer than two entries.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	if s.length <= 1 {
		return
	}
	s.armLocked()
}

// Cancel releases the timer. Safe to call repeatedly and on teardown.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) armLocked() {
	s.gen++
	gen := s.gen
	s.active = s.newTimer(s.interval, func() { s.tick(gen) })
}

func (s *Scheduler) stopLocked() {
	s.gen++
	if s.active != nil {
		s.active.Stop()
		s.active = nil
	}
}

func (s *Scheduler) tick(gen int) {
	s.mu.Lock()
	if gen != s.gen {
		// Cancelled or rescheduled after this tick was armed.
		s.mu.Unlock()
		return
	}
	cb := s.callback
	s.armLocked()
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

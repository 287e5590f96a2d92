package spotlight

import (
	"testing"
	"time"
)

// fakeTimer and fakeClock drive the scheduler on a virtual clock.
type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) newTimer(d time.Duration, f func()) timer {
	t := &fakeTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs the most recently armed live timer, as the wall clock would
// after one interval elapses.
func (c *fakeClock) fire(t *testing.T) {
	t.Helper()
	for i := len(c.timers) - 1; i >= 0; i-- {
		if !c.timers[i].stopped {
			c.timers[i].stopped = true
			c.timers[i].fn()
			return
		}
	}
	t.Fatal("no live timer to fire")
}

func (c *fakeClock) liveCount() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func newTestScheduler(length int, cb func()) (*Scheduler, *fakeClock) {
	clock := &fakeClock{}
	s := New(length, cb)
	s.newTimer = clock.newTimer
	return s, clock
}

func TestScheduleTicksAndRearms(t *testing.T) {
	calls := 0
	s, clock := newTestScheduler(5, func() { calls++ })

	s.Schedule()
	// Three intervals of virtual time.
	clock.fire(t)
	clock.fire(t)
	clock.fire(t)

	if calls != 3 {
		t.Errorf("callback calls = %d, want 3", calls)
	}
	if clock.liveCount() != 1 {
		t.Errorf("live timers = %d, want 1 (scheduler must re-arm)", clock.liveCount())
	}

	s.Cancel()
	if clock.liveCount() != 0 {
		t.Errorf("live timers after cancel = %d, want 0", clock.liveCount())
	}
}

func TestCancelSuppressesPendingTick(t *testing.T) {
	calls := 0
	s, clock := newTestScheduler(3, func() { calls++ })

	s.Schedule()
	pending := clock.timers[len(clock.timers)-1]
	s.Cancel()

	// Simulate the race where the timer fired before Stop took effect.
	pending.fn()

	if calls != 0 {
		t.Errorf("callback calls = %d, want 0 after cancel", calls)
	}
}

func TestShortSequenceNeverSchedules(t *testing.T) {
	for _, n := range []int{0, 1} {
		s, clock := newTestScheduler(n, func() { t.Errorf("callback fired for length %d", n) })
		s.Schedule()
		if len(clock.timers) != 0 {
			t.Errorf("length %d armed %d timers, want 0", n, len(clock.timers))
		}
	}
}

func TestScheduleIsIdempotent(t *testing.T) {
	calls := 0
	s, clock := newTestScheduler(4, func() { calls++ })

	s.Schedule()
	s.Schedule()
	s.Schedule()

	if clock.liveCount() != 1 {
		t.Fatalf("live timers = %d, want 1 after repeated Schedule", clock.liveCount())
	}
	clock.fire(t)
	if calls != 1 {
		t.Errorf("callback calls = %d, want 1", calls)
	}
}

func TestTickUsesLatestCallback(t *testing.T) {
	firstCalls, secondCalls := 0, 0
	s, clock := newTestScheduler(4, func() { firstCalls++ })

	s.Schedule()
	s.SetCallback(func() { secondCalls++ })
	clock.fire(t)

	if firstCalls != 0 || secondCalls != 1 {
		t.Errorf("calls = (%d, %d), want the rebound callback only", firstCalls, secondCalls)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	s, _ := newTestScheduler(4, func() {})
	s.Schedule()
	s.Cancel()
	s.Cancel() // must not panic or arm anything
}

package clock

import (
	"context"
	"sort"
	"time"
)

// Manual is a deterministic Scheduler for tests. Time only moves on Advance
// and async work only completes on Settle.
type Manual struct {
	now           time.Time
	frameInterval time.Duration
	seq           int
	timers        []*manualTimer
	pending       []func() func()
}

type manualTimer struct {
	due     time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewManual creates a Manual clock frozen at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, frameInterval: DefaultFrameInterval}
}

// Now returns the simulated time.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc schedules fn for d past the simulated now.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{due: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// RequestFrame schedules fn one frame interval ahead.
func (m *Manual) RequestFrame(fn func(now time.Time)) {
	m.AfterFunc(m.frameInterval, func() { fn(m.now) })
}

// Async queues work until Settle runs it.
func (m *Manual) Async(work func() func()) {
	m.pending = append(m.pending, work)
}

// Do runs fn inline; the test goroutine is the event thread.
func (m *Manual) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// Pending reports the number of async operations awaiting Settle.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Settle completes every pending async operation in submission order,
// including any queued while settling.
func (m *Manual) Settle() {
	for len(m.pending) > 0 {
		work := m.pending[0]
		m.pending = m.pending[1:]
		if apply := work(); apply != nil {
			apply()
		}
	}
}

// Advance moves the clock forward by d, firing due timers in deadline order.
// Timers armed by callbacks fire in the same call when they fall due.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		next.fired = true
		next.fn()
	}
	m.now = target
	m.compact()
}

func (m *Manual) nextDue(limit time.Time) *manualTimer {
	live := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.fired && !t.stopped && !t.due.After(limit) {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].due.Equal(live[j].due) {
			return live[i].seq < live[j].seq
		}
		return live[i].due.Before(live[j].due)
	})
	return live[0]
}

func (m *Manual) compact() {
	kept := m.timers[:0]
	for _, t := range m.timers {
		if !t.fired && !t.stopped {
			kept = append(kept, t)
		}
	}
	m.timers = kept
}

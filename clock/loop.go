package clock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

var ErrLoopStopped = errors.New("event loop stopped")

// Loop is the production Scheduler: one goroutine drains posted events.
type Loop struct {
	events        chan func()
	done          chan struct{}
	frameInterval time.Duration
	stopOnce      sync.Once
}

// NewLoop creates a Loop whose frames fire every frameInterval. Call Run to start it.
func NewLoop(frameInterval time.Duration) *Loop {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Loop{
		events:        make(chan func(), 64),
		done:          make(chan struct{}),
		frameInterval: frameInterval,
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer l.stopOnce.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.events:
			fn()
		}
	}
}

// Post queues fn for the event thread. It is dropped once the loop has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.events <- fn:
	case <-l.done:
	}
}

// Do runs fn on the event thread and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.events <- task:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Now returns the wall clock.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc posts fn to the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { l.Post(fn) })
}

// RequestFrame posts fn to the loop on the next frame.
func (l *Loop) RequestFrame(fn func(now time.Time)) {
	time.AfterFunc(l.frameInterval, func() {
		l.Post(func() { fn(time.Now()) })
	})
}

// Async runs work on its own goroutine and posts the returned completion to the loop.
func (l *Loop) Async(work func() func()) {
	go func() {
		if apply := work(); apply != nil {
			l.Post(apply)
		}
	}()
}

package clock

import "time"

// Timer is a pending delayed callback.
type Timer interface {
	Stop() bool
}

// Scheduler is the single logical event thread. Every callback it invokes
// runs on that thread, so state touched only from callbacks needs no locking.
type Scheduler interface {
	Now() time.Time
	// AfterFunc runs fn on the event thread once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// RequestFrame runs fn on the next rendering tick.
	RequestFrame(fn func(now time.Time))
	// Async runs work off the event thread and then applies the function it
	// returns on the event thread. A nil result is ignored.
	Async(work func() func())
}

package animation

import (
	"iter"
	"time"

	"dns-ledger-sim/clock"
	"dns-ledger-sim/models"
)

// Animator drives a Path against scheduler frames and writes the result into
// an AnimationState. Only the most recently started run may write.
type Animator struct {
	sched    clock.Scheduler
	state    *models.AnimationState
	onChange func()
	gen      uint64
	stop     func()
}

// NewAnimator writes into state and calls onChange after every write.
func NewAnimator(sched clock.Scheduler, state *models.AnimationState, onChange func()) *Animator {
	if onChange == nil {
		onChange = func() {}
	}
	return &Animator{sched: sched, state: state, onChange: onChange}
}

// Start begins a fresh run of p, superseding any run still in flight.
// Each frame feeds its elapsed time into p.Sequence and writes the sample
// that comes out.
func (a *Animator) Start(p Path) {
	if a.stop != nil {
		a.stop()
	}
	a.gen++
	gen := a.gen
	start := a.sched.Now()

	var elapsed time.Duration
	ticks := func(yield func(time.Duration) bool) {
		for yield(elapsed) {
		}
	}
	next, stop := iter.Pull(p.Sequence(ticks))
	a.stop = stop

	*a.state = models.AnimationState{Visible: true, Position: p.Origin, Opacity: 1}
	a.onChange()

	var step func(now time.Time)
	step = func(now time.Time) {
		if gen != a.gen {
			return
		}
		elapsed = now.Sub(start)
		s, ok := next()
		if !ok {
			stop()
			return
		}
		*a.state = models.AnimationState{
			Visible:  !s.Done,
			Position: s.Position,
			Opacity:  s.Opacity,
		}
		a.onChange()
		if s.Done {
			stop()
			return
		}
		a.sched.RequestFrame(step)
	}
	a.sched.RequestFrame(step)
}

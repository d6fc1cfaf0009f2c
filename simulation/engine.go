package simulation

import (
	"context"
	"errors"
	"fmt"

	"dns-ledger-sim/animation"
	"dns-ledger-sim/clock"
	"dns-ledger-sim/logger"
	"dns-ledger-sim/models"
	"dns-ledger-sim/registry"

	"go.uber.org/zap"
)

var (
	ErrSessionInactive    = errors.New("simulation is not running")
	ErrSubmissionInFlight = errors.New("an entry is already being evaluated")

	errEmptyVerdict = errors.New("authority returned no verdict")
)

// Preset records sent by the two UI buttons.
var (
	OKRecord        = models.CandidateRecord{Domain: "google.com", IP: "8.8.8.8"}
	MaliciousRecord = models.CandidateRecord{Domain: "bvn5rtqzq.com", IP: "45.67.89.123"}
)

// DecisionAuthority evaluates candidate records.
type DecisionAuthority interface {
	Submit(ctx context.Context, rec models.CandidateRecord) (*models.Verdict, error)
}

// ControlAuthority starts and stops the remote simulation session.
type ControlAuthority interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Authority is everything the engine needs from the remote side.
type Authority interface {
	DecisionAuthority
	ControlAuthority
}

// Surface consumes state snapshots.
type Surface interface {
	Draw(Snapshot)
}

// Engine sequences submission rounds and session toggles over a State.
// Every method must run on the scheduler's event thread.
type Engine struct {
	state     *State
	sched     clock.Scheduler
	authority Authority
	timing    Timing
	anchor    models.Point
	animator  *animation.Animator
	surface   Surface

	// epoch changes on every successful session toggle; callbacks from an
	// older epoch leave node decisions alone.
	epoch         uint64
	pendingResets int
}

// NewEngine creates and returns an Engine over the default topology.
func NewEngine(sched clock.Scheduler, authority Authority, timing Timing) *Engine {
	e := &Engine{
		state:     NewState(registry.DefaultTopology()),
		sched:     sched,
		authority: authority,
		timing:    timing,
		anchor:    registry.LedgerAnchor,
	}
	e.animator = animation.NewAnimator(sched, &e.state.Animation, e.publish)
	return e
}

// SetSurface attaches the render surface that receives every snapshot.
func (e *Engine) SetSurface(s Surface) {
	e.surface = s
	e.publish()
}

// Snapshot returns an immutable copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return e.state.snapshot(e.anchor, e.timing.LogDisplay)
}

// Logs returns the full, unbounded simulation log, newest first.
func (e *Engine) Logs() []string {
	return e.state.Log.All()
}

func (e *Engine) publish() {
	if e.surface != nil {
		e.surface.Draw(e.Snapshot())
	}
}

// SubmitPreset sends the OK or malicious preset record.
func (e *Engine) SubmitPreset(malicious bool) error {
	if malicious {
		return e.submit(MaliciousRecord, true)
	}
	return e.submit(OKRecord, false)
}

// Submit starts a round for rec: the token flight, the vote and reset
// timers and the authority call all begin now.
func (e *Engine) Submit(rec models.CandidateRecord) error {
	return e.submit(rec, false)
}

func (e *Engine) submit(rec models.CandidateRecord, malicious bool) error {
	if !e.state.SessionActive {
		return ErrSessionInactive
	}
	if e.state.Current != nil {
		return ErrSubmissionInFlight
	}

	epoch := e.epoch
	current := rec
	e.state.Current = &current
	e.state.SendingMalicious = malicious
	e.state.Phase = PhaseAnimatingAndVoting
	logger.Logger.Info("Submitting entry", zap.String("domain", rec.Domain), zap.String("ip", rec.IP))

	if submitter, ok := e.state.Nodes.Get(models.SubmitterID); ok {
		e.animator.Start(animation.Path{
			Origin:      submitter.Position,
			Destination: e.anchor,
			Duration:    e.timing.AnimationDuration,
			FadeStart:   e.timing.FadeStart,
		})
	}

	e.sched.AfterFunc(e.timing.VoteDelay, func() { e.beginVoting(epoch) })
	e.pendingResets++
	e.sched.AfterFunc(e.timing.ResetDelay, func() { e.resetPeers(epoch) })

	e.sched.Async(func() func() {
		v, err := e.authority.Submit(context.Background(), rec)
		if err == nil && v == nil {
			err = errEmptyVerdict
		}
		return func() { e.resolve(rec, epoch, v, err) }
	})

	e.publish()
	return nil
}

func (e *Engine) beginVoting(epoch uint64) {
	if epoch == e.epoch {
		e.state.Nodes.ApplyTransition(registry.Submitter, models.Idle)
		e.state.Nodes.ApplyTransition(registry.Peers, models.Voting)
	}
	if e.state.Phase == PhaseAnimatingAndVoting {
		e.state.Phase = PhaseAwaitingVerdict
	}
	e.publish()
}

func (e *Engine) resolve(rec models.CandidateRecord, epoch uint64, v *models.Verdict, err error) {
	e.state.Current = nil

	switch {
	case err != nil:
		e.state.Log.Push(fmt.Sprintf("Error submitting entry for %s: %v", rec.Domain, err))
		logger.Logger.Warn("Entry submission failed", zap.String("domain", rec.Domain), zap.Error(err))

	case v.Outcome == models.Accepted:
		e.state.Ledger.Replace(v.Ledger)
		e.state.Log.Push(
			fmt.Sprintf("Entry for %s ACCEPTED", rec.Domain),
			fmt.Sprintf("Added to blockchain at index %d", e.state.Ledger.LastIndex()),
		)
		logger.Logger.Info("Entry accepted", zap.String("domain", rec.Domain), zap.Int("index", e.state.Ledger.LastIndex()))

	default:
		lines := []string{fmt.Sprintf("Entry for %s deemed MALICIOUS", rec.Domain)}
		if v.Reason != "" {
			lines = append(lines, "Reason: "+v.Reason)
		}
		if v.BannedNode != 0 {
			lines = append(lines, fmt.Sprintf("Node %d banned", v.BannedNode))
		}
		e.state.Log.Push(lines...)
		logger.Logger.Info("Entry rejected", zap.String("domain", rec.Domain),
			zap.String("reason", v.Reason), zap.Int("banned_node", v.BannedNode))
	}

	if err == nil && epoch == e.epoch {
		e.applyVotes(v)
	}

	if e.pendingResets > 0 {
		e.state.Phase = PhaseResolved
	} else {
		e.state.Phase = PhaseIdle
	}
	e.publish()
}

func (e *Engine) applyVotes(v *models.Verdict) {
	submitter := models.Banned
	if v.Outcome == models.Accepted {
		submitter = models.Idle
	}
	e.state.Nodes.ApplyTransition(registry.Submitter, submitter)
	e.state.Nodes.Update(registry.Peers, func(n models.Node) models.Decision {
		vote, ok := v.VoteFor(n.ID)
		switch {
		case !ok:
			return n.Decision
		case vote.IsMalicious():
			return models.Malicious
		default:
			return models.OK
		}
	})
}

func (e *Engine) resetPeers(epoch uint64) {
	e.pendingResets--
	if epoch == e.epoch {
		e.state.Nodes.ApplyTransition(registry.Peers, models.Idle)
	}
	if e.state.Current == nil && e.pendingResets == 0 {
		e.state.Phase = PhaseIdle
	}
	e.publish()
}

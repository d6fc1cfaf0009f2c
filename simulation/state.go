package simulation

import (
	"time"

	"dns-ledger-sim/ledger"
	"dns-ledger-sim/models"
	"dns-ledger-sim/registry"
	"dns-ledger-sim/simlog"
)

// Phase of the submission round.
type Phase string

const (
	PhaseIdle               Phase = "Idle"
	PhaseAnimatingAndVoting Phase = "AnimatingAndVoting"
	PhaseAwaitingVerdict    Phase = "AwaitingVerdict"
	PhaseResolved           Phase = "Resolved"
)

// Timing holds the round's delays, all measured from submission start.
type Timing struct {
	VoteDelay         time.Duration
	ResetDelay        time.Duration
	AnimationDuration time.Duration
	FadeStart         float64
	LogDisplay        int
}

// DefaultTiming returns the stock round timings.
func DefaultTiming() Timing {
	return Timing{
		VoteDelay:         1500 * time.Millisecond,
		ResetDelay:        2000 * time.Millisecond,
		AnimationDuration: 1500 * time.Millisecond,
		FadeStart:         0.9,
		LogDisplay:        simlog.DefaultDisplay,
	}
}

// State is the simulation aggregate. It is owned by one Engine and only
// touched from the scheduler's event thread.
type State struct {
	Nodes            *registry.Registry
	Ledger           *ledger.Mirror
	Log              *simlog.Log
	Animation        models.AnimationState
	SessionActive    bool
	Current          *models.CandidateRecord
	SendingMalicious bool
	Phase            Phase
}

// NewState creates and returns a State over nodes with an inactive session and a genesis-only ledger.
func NewState(nodes []models.Node) *State {
	return &State{
		Nodes:  registry.New(nodes),
		Ledger: ledger.NewMirror(),
		Log:    simlog.New(),
		Phase:  PhaseIdle,
	}
}

// Snapshot is an immutable copy of State handed to render surfaces.
type Snapshot struct {
	SessionActive    bool                    `json:"session_active"`
	Phase            Phase                   `json:"phase"`
	Nodes            []models.Node           `json:"nodes"`
	Anchor           models.Point            `json:"anchor"`
	Ledger           []models.LedgerBlock    `json:"ledger"`
	Logs             []string                `json:"logs"`
	LogCount         int                     `json:"log_count"`
	Current          *models.CandidateRecord `json:"current_entry,omitempty"`
	SendingMalicious bool                    `json:"sending_malicious"`
	Animation        models.AnimationState   `json:"animation"`
}

func (s *State) snapshot(anchor models.Point, logDisplay int) Snapshot {
	snap := Snapshot{
		SessionActive:    s.SessionActive,
		Phase:            s.Phase,
		Nodes:            s.Nodes.Nodes(),
		Anchor:           anchor,
		Ledger:           s.Ledger.Blocks(),
		Logs:             s.Log.Recent(logDisplay),
		LogCount:         s.Log.Len(),
		SendingMalicious: s.SendingMalicious,
		Animation:        s.Animation,
	}
	if s.Current != nil {
		cur := *s.Current
		snap.Current = &cur
	}
	return snap
}

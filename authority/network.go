package authority

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dns-ledger-sim/ledger"
	"dns-ledger-sim/logger"
	"dns-ledger-sim/models"
	"dns-ledger-sim/repository"
	"dns-ledger-sim/screening"

	"go.uber.org/zap"
)

// DefaultSize is the number of validators created on Start.
const DefaultSize = 5

const rejectionReason = "Malicious entry"

var (
	ErrNotStarted    = errors.New("simulation not started")
	ErrInvalidRecord = errors.New("domain and IP are required")
)

// Status is a validator's standing in the network.
type Status string

const (
	Neutral Status = "neutral"
	Banned  Status = "banned"
)

// Validator is one voting participant of the network.
type Validator struct {
	ID     int    `json:"node_id"`
	Status Status `json:"status"`
}

// Network evaluates entries by majority vote and keeps one chain per validator.
type Network struct {
	repo     repository.ChainRepository
	screener *screening.Screener
	size     int
	delay    time.Duration

	mux        sync.Mutex
	validators []*Validator
}

// NewNetwork creates a stopped network. delay is applied to every submission
// before voting so clients can animate the round.
func NewNetwork(repo repository.ChainRepository, screener *screening.Screener, size int, delay time.Duration) *Network {
	if size <= 0 {
		size = DefaultSize
	}
	return &Network{repo: repo, screener: screener, size: size, delay: delay}
}

// Start creates fresh validators, each holding only the genesis block.
func (n *Network) Start() error {
	n.mux.Lock()
	defer n.mux.Unlock()

	if err := n.repo.DeleteAll(); err != nil {
		return err
	}
	genesis := ledger.NewChain().Blocks()[0]
	validators := make([]*Validator, 0, n.size)
	entries := make([]repository.BlockEntry, 0, n.size)
	for id := 1; id <= n.size; id++ {
		entries = append(entries, repository.BlockEntry{NodeID: id, Block: genesis})
		validators = append(validators, &Validator{ID: id, Status: Neutral})
	}
	if err := n.repo.PutBlocks(entries); err != nil {
		return err
	}
	n.validators = validators

	logger.Logger.Info("Simulation started", zap.Int("validators", n.size))
	return nil
}

// Stop discards all validators and their chains.
func (n *Network) Stop() error {
	n.mux.Lock()
	defer n.mux.Unlock()

	n.validators = nil
	logger.Logger.Info("Simulation stopped")
	return n.repo.DeleteAll()
}

// Validators returns a copy of the current validator set.
func (n *Network) Validators() []Validator {
	n.mux.Lock()
	defer n.mux.Unlock()

	out := make([]Validator, 0, len(n.validators))
	for _, v := range n.validators {
		out = append(out, *v)
	}
	return out
}

// Vote is the assessment every validator casts for rec. Validators share one
// screener, so a round computes it once.
func (n *Network) Vote(ctx context.Context, rec models.CandidateRecord) string {
	if !screening.ValidIPv4(rec.IP) {
		return models.VoteError
	}
	if n.screener.Listed(ctx, rec.IP) {
		return models.VoteMalicious
	}
	if n.screener.AnalyzeDomain(rec.Domain) == screening.NotMalicious {
		return models.VoteOK
	}
	return models.VoteMalicious
}

// Submit runs a voting round. A strict majority of malicious votes rejects
// the entry and bans the submitter; otherwise every chain gets a new block.
func (n *Network) Submit(ctx context.Context, rec models.CandidateRecord) (models.SubmitResponse, error) {
	if rec.Domain == "" || rec.IP == "" {
		return models.SubmitResponse{}, ErrInvalidRecord
	}

	if n.delay > 0 {
		select {
		case <-time.After(n.delay):
		case <-ctx.Done():
			return models.SubmitResponse{}, ctx.Err()
		}
	}

	// Screening may hit the network; keep it outside the lock.
	assessment := n.Vote(ctx, rec)

	n.mux.Lock()
	defer n.mux.Unlock()

	if len(n.validators) == 0 {
		return models.SubmitResponse{}, ErrNotStarted
	}

	votes := make([]models.Vote, 0, len(n.validators))
	malicious := 0
	for _, v := range n.validators {
		vote := models.Vote{NodeID: v.ID, Value: assessment}
		if vote.IsMalicious() {
			malicious++
		}
		votes = append(votes, vote)
	}
	resp := models.SubmitResponse{Votes: votes}

	if malicious > len(n.validators)/2 {
		for _, v := range n.validators {
			if v.ID == models.SubmitterID {
				v.Status = Banned
			}
		}
		resp.Result = string(models.Rejected)
		resp.Reason = rejectionReason
		resp.BannedNode = models.SubmitterID
		logger.Logger.Info("Entry rejected",
			zap.String("domain", rec.Domain), zap.Int("malicious_votes", malicious))
		return resp, nil
	}

	chains, err := n.extendChains(rec)
	if err != nil {
		return models.SubmitResponse{}, err
	}
	resp.Blockchain = chains[models.SubmitterID]
	resp.Result = string(models.Accepted)
	logger.Logger.Info("Entry accepted",
		zap.String("domain", rec.Domain), zap.Int("index", len(resp.Blockchain)-1))
	return resp, nil
}

// extendChains appends rec to every validator's chain and persists all the new
// blocks in one write, so a storage failure leaves every chain unchanged.
func (n *Network) extendChains(rec models.CandidateRecord) (map[int][]models.LedgerBlock, error) {
	chains := make(map[int][]models.LedgerBlock, len(n.validators))
	entries := make([]repository.BlockEntry, 0, len(n.validators))
	for _, v := range n.validators {
		stored, err := n.repo.GetChain(v.ID)
		if err != nil {
			return nil, err
		}
		chain := ledger.ChainFrom(stored)
		if len(stored) == 0 {
			chain = ledger.NewChain()
			entries = append(entries, repository.BlockEntry{NodeID: v.ID, Block: chain.Blocks()[0]})
		} else if err := chain.Verify(); err != nil {
			return nil, fmt.Errorf("validator %d: %w", v.ID, err)
		}
		entries = append(entries, repository.BlockEntry{NodeID: v.ID, Block: chain.Append(rec)})
		chains[v.ID] = chain.Blocks()
	}
	if err := n.repo.PutBlocks(entries); err != nil {
		logger.Logger.Error("Failed to persist blocks", zap.String("domain", rec.Domain), zap.Error(err))
		return nil, err
	}
	return chains, nil
}

// Chains returns every validator's chain keyed by validator id.
func (n *Network) Chains() (map[int][]models.LedgerBlock, error) {
	n.mux.Lock()
	defer n.mux.Unlock()

	if len(n.validators) == 0 {
		return nil, ErrNotStarted
	}
	chains := make(map[int][]models.LedgerBlock, len(n.validators))
	for _, v := range n.validators {
		blocks, err := n.repo.GetChain(v.ID)
		if err != nil {
			return nil, err
		}
		chains[v.ID] = blocks
	}
	return chains, nil
}

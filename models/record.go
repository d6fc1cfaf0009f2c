package models

import (
	"encoding/json"
	"errors"
)

// GenesisMarker is the payload of the block at index 0.
const GenesisMarker = "Genesis Block"

// CandidateRecord is a domain/IP pair submitted for evaluation.
type CandidateRecord struct {
	Domain string `json:"domain"`
	IP     string `json:"ip"`
}

// Outcome is the authority's verdict on an entry
type Outcome string

const (
	Accepted Outcome = "Accepted"
	Rejected Outcome = "Rejected"
)

// Vote values as reported by the decision authority. Anything other than
// VoteMalicious counts as not malicious.
const (
	VoteMalicious    = "Malicious"
	VoteNotMalicious = "NotMalicious"
	VoteOK           = "OK"
	VoteError        = "Error"
)

// Vote is one validator's ballot
type Vote struct {
	NodeID int    `json:"node_id"`
	Value  string `json:"vote"`
}

// IsMalicious reports whether the ballot flags the entry. Any other value counts as benign.
func (v Vote) IsMalicious() bool {
	return v.Value == VoteMalicious
}

// Verdict is the decision authority's answer for one CandidateRecord.
type Verdict struct {
	Outcome    Outcome
	Votes      []Vote
	Reason     string        // Rejected only, may be empty
	BannedNode int           // Rejected only, 0 when absent
	Ledger     []LedgerBlock // Accepted only
}

// VoteFor returns the vote cast by node id, if any.
func (v *Verdict) VoteFor(id int) (Vote, bool) {
	for _, vote := range v.Votes {
		if vote.NodeID == id {
			return vote, true
		}
	}
	return Vote{}, false
}

// BlockData is either the genesis marker or a record.
type BlockData struct {
	Marker string
	Record *CandidateRecord
}

// GenesisData is the payload of block 0
func GenesisData() BlockData {
	return BlockData{Marker: GenesisMarker}
}

// RecordData wraps rec as a block payload
func RecordData(rec CandidateRecord) BlockData {
	return BlockData{Record: &rec}
}

// IsGenesis reports whether d is the genesis marker
func (d BlockData) IsGenesis() bool {
	return d.Record == nil && d.Marker == GenesisMarker
}

// String is the form hashed into the authoritative chain.
func (d BlockData) String() string {
	if d.Record != nil {
		return d.Record.Domain + ":" + d.Record.IP
	}
	return d.Marker
}

// MarshalJSON encodes the genesis marker as a string and a record as an object
func (d BlockData) MarshalJSON() ([]byte, error) {
	if d.Record != nil {
		return json.Marshal(d.Record)
	}
	return json.Marshal(d.Marker)
}

// UnmarshalJSON accepts either form written by MarshalJSON
func (d *BlockData) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty block data")
	}
	if b[0] == '"' {
		d.Record = nil
		return json.Unmarshal(b, &d.Marker)
	}
	var rec CandidateRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	d.Marker = ""
	d.Record = &rec
	return nil
}

// LedgerBlock is one block of a validator's chain
type LedgerBlock struct {
	Index    int       `json:"index"`
	Data     BlockData `json:"data"`
	PrevHash string    `json:"prev_hash,omitempty"`
	Hash     string    `json:"hash,omitempty"`
}

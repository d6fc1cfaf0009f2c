package models

import "encoding/json"

// SubmitterID is the node that originates entries. It never takes a peer vote.
const SubmitterID = 1

// Decision is the display state of a participant node.
type Decision string

const (
	Unset     Decision = ""
	Idle      Decision = "Idle"
	Voting    Decision = "Voting"
	Malicious Decision = "Malicious"
	OK        Decision = "OK"
	Banned    Decision = "Banned"
	Stopped   Decision = "Stopped"
)

// MarshalJSON encodes Unset as null.
func (d Decision) MarshalJSON() ([]byte, error) {
	if d == Unset {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON maps null back to Unset.
func (d *Decision) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Unset
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = Decision(s)
	return nil
}

// Point is a fixed planar screen coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one participant drawn on the network view
type Node struct {
	ID       int      `json:"id"`       // stable for the process lifetime
	Position Point    `json:"position"` // fixed screen coordinates
	Decision Decision `json:"decision"` // only mutable field
}

// IsSubmitter reports whether n is the distinguished submitter node.
func (n Node) IsSubmitter() bool {
	return n.ID == SubmitterID
}

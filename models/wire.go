package models

// SubmitResponse is the /submit_entry response body.
type SubmitResponse struct {
	Votes      []Vote        `json:"votes"`
	Result     string        `json:"result"`
	Blockchain []LedgerBlock `json:"blockchain,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	BannedNode int           `json:"banned_node,omitempty"`
}

// Verdict converts the wire form. Any result other than "Accepted" is a rejection.
func (r SubmitResponse) Verdict() *Verdict {
	v := &Verdict{Outcome: Rejected, Votes: r.Votes}
	if Outcome(r.Result) == Accepted {
		v.Outcome = Accepted
		v.Ledger = r.Blockchain
		return v
	}
	v.Reason = r.Reason
	v.BannedNode = r.BannedNode
	return v
}

// ErrorResponse is the JSON body of every non-2xx API reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges control calls.
type MessageResponse struct {
	Message string `json:"message"`
}

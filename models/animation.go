package models

// AnimationState is the moving token drawn between the submitter and the ledger.
type AnimationState struct {
	Visible  bool    `json:"visible"`
	Position Point   `json:"position"`
	Opacity  float64 `json:"opacity"`
}

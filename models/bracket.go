package models

// BracketMatch is a read-model projection of a Match with team and winner
// display data resolved. Presentation only; it carries no invariants of its
// own beyond Match's.
type BracketMatch struct {
	Match

	TeamAName  string `json:"team_a_name,omitempty"`
	TeamBName  string `json:"team_b_name,omitempty"`
	WinnerName string `json:"winner_name,omitempty"`
}

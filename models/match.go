package models

import "time"

type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
	StatusCancelled MatchStatus = "cancelled"
	StatusWalkover  MatchStatus = "walkover"
)

// IsTerminal reports whether no further score or timer mutation is allowed.
func (s MatchStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusWalkover:
		return true
	}
	return false
}

// MatchSlot identifies which side of a match a team (or an advancing winner)
// occupies. Slot 1 is the "A" side, slot 2 the "B" side.
type MatchSlot int

const (
	SlotA MatchSlot = 1
	SlotB MatchSlot = 2
)

type Match struct {
	ID      int  `json:"id"`
	EventID int  `json:"event_id"`
	TeamAID *int `json:"team_a_id,omitempty"`
	TeamBID *int `json:"team_b_id,omitempty"`

	// Bracket coordinates, 1-based. Position parity decides which parent
	// slot this match feeds: odd positions feed slot A, even positions slot B.
	Round      int     `json:"round"`
	Position   int     `json:"position"`
	BracketUID *string `json:"bracket_uid,omitempty"`

	Status   MatchStatus `json:"status"`
	ScoreA   *int        `json:"score_a,omitempty"`
	ScoreB   *int        `json:"score_b,omitempty"`
	WinnerID *int        `json:"winner_id,omitempty"`

	// ParentMatchID references the match that consumes this match's winner.
	// Nil for the final and for standalone (non-bracket) matches.
	ParentMatchID *int `json:"parent_match_id,omitempty"`

	// Bye markers distinguish a slot that is empty because the draw left it
	// vacant from a slot that is empty awaiting a feeder's winner.
	TeamABye bool `json:"team_a_bye,omitempty"`
	TeamBBye bool `json:"team_b_bye,omitempty"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Timer TimerState `json:"timer"`
}

// HasTeam reports whether the given team occupies one of the match's slots.
func (m *Match) HasTeam(teamID int) bool {
	if m.TeamAID != nil && *m.TeamAID == teamID {
		return true
	}
	if m.TeamBID != nil && *m.TeamBID == teamID {
		return true
	}
	return false
}

// ParentSlot returns the slot of the parent match that this match's winner
// advances into, derived from position parity.
func (m *Match) ParentSlot() MatchSlot {
	if m.Position%2 == 1 {
		return SlotA
	}
	return SlotB
}

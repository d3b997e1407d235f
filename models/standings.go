package models

import "time"

// TeamStats aggregates a team's completed matches within one event. Derived
// data, recomputed on every standings request, never persisted by the engine.
type TeamStats struct {
	TeamID         int `json:"team_id"`
	Played         int `json:"played"`
	Wins           int `json:"wins"`
	Draws          int `json:"draws"`
	Losses         int `json:"losses"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	GoalDifference int `json:"goal_difference"`
	Points         int `json:"points"`
}

type RankingEntry struct {
	Position int `json:"position"`
	TeamStats

	// Optional linked data, populated by the caller for presentation.
	Team *Team `json:"team,omitempty"`
}

// MatchOutcome is a single letter as rendered in a form string.
type MatchOutcome string

const (
	OutcomeWin  MatchOutcome = "W"
	OutcomeDraw MatchOutcome = "D"
	OutcomeLoss MatchOutcome = "L"
)

// MatchPerformance is one completed match from a team's point of view.
type MatchPerformance struct {
	MatchID      int          `json:"match_id"`
	Outcome      MatchOutcome `json:"outcome"`
	GoalsFor     int          `json:"goals_for"`
	GoalsAgainst int          `json:"goals_against"`
	CompletedAt  time.Time    `json:"completed_at"`
}

// TeamForm holds the auxiliary derived metrics for one team: recent form over
// the last five completed matches (most recent first), win rate, goal average
// and the full match-by-match history in completion order, newest first.
type TeamForm struct {
	TeamID      int                `json:"team_id"`
	Form        string             `json:"form"`
	WinRate     float64            `json:"win_rate"`
	AvgGoalsFor float64            `json:"avg_goals_for"`
	History     []MatchPerformance `json:"history,omitempty"`
}

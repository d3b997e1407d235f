package models

import "fmt"

type GameMode string

const (
	GameModeTime   GameMode = "TIME"
	GameModePoints GameMode = "POINTS"
)

// MatchRules are attached per event and inherited by every match of that
// event. They must not change once a match has started.
type MatchRules struct {
	GameMode GameMode `json:"game_mode"`

	// DurationMinutes is required when GameMode is TIME.
	DurationMinutes int `json:"duration,omitempty"`

	// PointsToWin is required when GameMode is POINTS.
	PointsToWin int `json:"points_to_win,omitempty"`

	// ShouldAutoEnd enables automatic completion on score limit or time
	// expiry. When false a match only ends on an explicit organizer stop.
	ShouldAutoEnd bool `json:"should_auto_end"`
}

func (r MatchRules) Validate() error {
	switch r.GameMode {
	case GameModeTime:
		if r.DurationMinutes <= 0 {
			return fmt.Errorf("match rules: duration must be positive for %s mode, got %d", r.GameMode, r.DurationMinutes)
		}
	case GameModePoints:
		if r.PointsToWin <= 0 {
			return fmt.Errorf("match rules: points_to_win must be positive for %s mode, got %d", r.GameMode, r.PointsToWin)
		}
	default:
		return fmt.Errorf("match rules: unknown game mode %q", r.GameMode)
	}
	return nil
}

// TotalDurationSeconds returns the configured match length in seconds, or
// zero for POINTS-mode rules.
func (r MatchRules) TotalDurationSeconds() int {
	if r.GameMode != GameModeTime {
		return 0
	}
	return r.DurationMinutes * 60
}

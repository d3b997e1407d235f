package services

import (
	"fmt"
	"math"
	"time"

	"github.com/courtside/competition-engine/models"
)

// CurrentElapsed computes the elapsed seconds of a match clock from its
// persisted snapshot plus a wall-clock read. Pure function: safe to call
// repeatedly for polling or display, never mutates the snapshot.
//
// The clock is frozen (returns the stored value unchanged) whenever the match
// is not live, the timer is paused, or no last-update stamp exists yet.
// A running clock is capped at the configured total duration; it never
// overshoots.
func CurrentElapsed(state models.TimerState, status models.MatchStatus, totalDurationSeconds int, now time.Time) float64 {
	if state.CurrentTime <= 0 && state.LastUpdateMillis == nil {
		return 0
	}
	if status != models.StatusLive || state.IsPaused || state.LastUpdateMillis == nil {
		return state.CurrentTime
	}

	deltaMillis := now.UnixMilli() - *state.LastUpdateMillis
	if deltaMillis < 0 {
		// Wall clock moved backwards; keep the stored value.
		return state.CurrentTime
	}

	elapsed := state.CurrentTime + float64(deltaMillis)/1000.0
	if totalDurationSeconds > 0 && elapsed > float64(totalDurationSeconds) {
		return float64(totalDurationSeconds)
	}
	return elapsed
}

// Remaining returns the seconds left on a countdown clock, floored at zero.
func Remaining(state models.TimerState, status models.MatchStatus, totalDurationSeconds int, now time.Time) float64 {
	left := float64(totalDurationSeconds) - CurrentElapsed(state, status, totalDurationSeconds, now)
	if left < 0 {
		return 0
	}
	return left
}

// FormatClock renders a second count as zero-padded MM:SS, floor-truncated
// to whole seconds.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

package models

// TimerState is the persisted snapshot of a match clock. The clock never runs
// in-process: elapsed time is recomputed on demand from this snapshot plus a
// wall-clock read (see services.CurrentElapsed).
type TimerState struct {
	// CurrentTime is the elapsed play time in seconds as of the last mutation.
	CurrentTime float64 `json:"current_time"`
	IsPaused    bool    `json:"is_paused"`

	// LastUpdateMillis is the wall-clock timestamp (unix milliseconds) of the
	// last timer mutation. Nil until the clock has been started once.
	LastUpdateMillis *int64 `json:"last_update_timestamp,omitempty"`

	// StartMillis is the wall-clock timestamp of the initial start. Cleared
	// by a timer reset.
	StartMillis *int64 `json:"start_timestamp,omitempty"`

	// TotalDuration is the configured match length in seconds, derived from
	// the event's rules when the match starts. Zero for POINTS-mode matches.
	TotalDuration int `json:"total_duration"`
}

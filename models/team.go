package models

import "time"

// Team is owned by the external event/roster subsystem and is immutable for
// the rules engine.
type Team struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`

	LogoURL *string `json:"logo_url,omitempty"`
	Sport   *string `json:"sport,omitempty"`
}

package brackets

import (
	"context"
	"errors"

	"github.com/courtside/competition-engine/models"
)

var (
	ErrNotEnoughTeams = errors.New("not enough teams to generate a bracket (minimum 2)")
	ErrDuplicateTeam  = errors.New("team list contains duplicate team ids")
)

// GenerateParams carries the draw for one event. The engine pairs teams in
// the order supplied by the caller; it never reseeds or randomizes.
type GenerateParams struct {
	EventID int
	Teams   []*models.Team
}

// Bracket is the generated fixture set for one event. Matches are ordered by
// round, then by position within the round. Generated match IDs are local to
// the bracket (1..TotalMatches); the caller remaps them when persisting.
type Bracket struct {
	Matches []*models.Match

	Rounds            int
	TotalMatches      int
	FirstRoundMatches int
	ByeCount          int
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateParams) (*Bracket, error)

	GetName() string
}

// validateTeams enforces the shared generation preconditions.
func validateTeams(teams []*models.Team) error {
	if len(teams) < 2 {
		return ErrNotEnoughTeams
	}
	seen := make(map[int]struct{}, len(teams))
	for _, t := range teams {
		if t == nil {
			return errors.New("team list contains a nil team")
		}
		if _, dup := seen[t.ID]; dup {
			return ErrDuplicateTeam
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

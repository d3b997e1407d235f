package brackets

import (
	"context"
	"fmt"

	"github.com/courtside/competition-engine/models"
)

type RoundRobinGenerator struct {
	// legs is 1 for a single round-robin, 2 for a double (return fixtures
	// with home/away swapped).
	legs int
}

func NewRoundRobinGenerator(legs int) BracketGenerator {
	if legs != 2 {
		legs = 1
	}
	return &RoundRobinGenerator{legs: legs}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates a league schedule using the circle method: one
// team stays fixed while the rest rotate, producing n-1 matchdays (n for odd
// team counts, with one team idle per matchday). Each pair meets once per
// leg. Round carries the matchday number so standings can be computed per
// matchday cut-off; league matches have no parent linkage.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateParams) (*Bracket, error) {
	teams := params.Teams
	if err := validateTeams(teams); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(teams)+1)
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	// Odd team count: add a dummy opponent, pairings against it are byes and
	// produce no match.
	const dummy = 0
	if len(ids)%2 != 0 {
		ids = append(ids, dummy)
	}

	n := len(ids)
	matchdays := n - 1
	half := n / 2

	bracket := &Bracket{
		Rounds:            matchdays * g.legs,
		FirstRoundMatches: 0,
	}

	matchID := 0
	addMatch := func(round, position, homeID, awayID int) {
		matchID++
		uid := fmt.Sprintf("MD%dM%d", round, position)
		home, away := homeID, awayID
		bracket.Matches = append(bracket.Matches, &models.Match{
			ID:         matchID,
			EventID:    params.EventID,
			Round:      round,
			Position:   position,
			BracketUID: &uid,
			TeamAID:    &home,
			TeamBID:    &away,
			Status:     models.StatusScheduled,
		})
	}

	for leg := 0; leg < g.legs; leg++ {
		rotation := make([]int, n)
		copy(rotation, ids)

		for day := 1; day <= matchdays; day++ {
			round := leg*matchdays + day
			position := 0
			for i := 0; i < half; i++ {
				a, b := rotation[i], rotation[n-1-i]
				if a == dummy || b == dummy {
					continue
				}
				position++
				if leg == 0 {
					addMatch(round, position, a, b)
				} else {
					// Return fixture: home and away swapped.
					addMatch(round, position, b, a)
				}
			}
			if round == 1 {
				bracket.FirstRoundMatches = position
			}
			// Rotate everyone but the first entry.
			rotated := make([]int, 0, n)
			rotated = append(rotated, rotation[0], rotation[n-1])
			rotated = append(rotated, rotation[1:n-1]...)
			rotation = rotated
		}
	}

	bracket.TotalMatches = len(bracket.Matches)
	return bracket, nil
}

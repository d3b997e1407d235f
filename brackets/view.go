package brackets

import (
	"fmt"

	"github.com/courtside/competition-engine/models"
)

// ProjectView turns generated matches into presentation read-models with
// team and winner names resolved from the roster.
func ProjectView(matches []*models.Match, roster []*models.Team) []*models.BracketMatch {
	byID := make(map[int]*models.Team, len(roster))
	for _, t := range roster {
		if t != nil {
			byID[t.ID] = t
		}
	}

	view := make([]*models.BracketMatch, 0, len(matches))
	for _, m := range matches {
		if m == nil {
			continue
		}
		bm := &models.BracketMatch{
			Match:      *m,
			TeamAName:  slotName(m.TeamAID, m.TeamABye, byID),
			TeamBName:  slotName(m.TeamBID, m.TeamBBye, byID),
			WinnerName: teamName(m.WinnerID, byID),
		}
		view = append(view, bm)
	}
	return view
}

func slotName(teamID *int, bye bool, byID map[int]*models.Team) string {
	if teamID == nil && bye {
		return "BYE"
	}
	return teamName(teamID, byID)
}

func teamName(teamID *int, byID map[int]*models.Team) string {
	if teamID == nil {
		return ""
	}
	if t, ok := byID[*teamID]; ok && t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("Team (ID: %d)", *teamID)
}

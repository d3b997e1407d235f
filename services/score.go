package services

import "github.com/courtside/competition-engine/models"

// Допустимые дельты очков: обычные наборы +1/+2/+3 и коррекция -1.
var validScoreDeltas = map[int]struct{}{
	1:  {},
	2:  {},
	3:  {},
	-1: {},
}

func isValidScoreDelta(points int) bool {
	_, ok := validScoreDeltas[points]
	return ok
}

// applyScoreDelta returns the new score for a team, floor-clamped at zero.
// A nil current score counts as zero (scoring has not started yet).
func applyScoreDelta(current *int, points int) int {
	next := scoreValue(current) + points
	if next < 0 {
		return 0
	}
	return next
}

func scoreValue(s *int) int {
	if s == nil {
		return 0
	}
	return *s
}

// decideWinner resolves a match outcome by score comparison: strictly higher
// score wins, equal scores mean a draw and a nil winner.
func decideWinner(m *models.Match) *int {
	a := scoreValue(m.ScoreA)
	b := scoreValue(m.ScoreB)
	switch {
	case a > b:
		return m.TeamAID
	case b > a:
		return m.TeamBID
	default:
		return nil
	}
}

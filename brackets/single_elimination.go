package brackets

import (
	"context"
	"fmt"
	"math"

	"github.com/courtside/competition-engine/models"
)

// node tracks what feeds one slot of the next round while the tree is being
// built: a concrete match, plus an already-resolved outcome when the match
// was decided by byes at generation time.
type node struct {
	match  *models.Match
	teamID *int // winner of a resolved bye chain
	bye    bool // bye placeholder, nothing advances from here
}

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket builds the full single-elimination tree for the supplied
// draw order. Every bracket slot is materialized as a match, byes included:
// a round-1 match with one real team resolves immediately as a walkover
// advancing that team, and the resolution cascades upward while byes keep
// meeting each other. Teams are paired by position (slot i pairs team 2i-1
// with team 2i); byes fill the highest round-1 positions.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateParams) (*Bracket, error) {
	teams := params.Teams
	if err := validateTeams(teams); err != nil {
		return nil, err
	}

	n := len(teams)
	rounds := int(math.Ceil(math.Log2(float64(n))))
	bracketSize := 1 << uint(rounds)
	byeCount := bracketSize - n

	bracket := &Bracket{
		Matches:           make([]*models.Match, 0, bracketSize-1),
		Rounds:            rounds,
		TotalMatches:      bracketSize - 1,
		FirstRoundMatches: bracketSize / 2,
		ByeCount:          byeCount,
	}

	matchID := 0
	newMatch := func(round, position int) *models.Match {
		matchID++
		uid := fmt.Sprintf("R%dM%d", round, position)
		return &models.Match{
			ID:         matchID,
			EventID:    params.EventID,
			Round:      round,
			Position:   position,
			BracketUID: &uid,
			Status:     models.StatusScheduled,
		}
	}

	// Round 1: pair the draw slots directly.
	current := make([]*node, 0, bracketSize/2)
	for pos := 1; pos <= bracketSize/2; pos++ {
		m := newMatch(1, pos)

		aIdx, bIdx := (pos-1)*2, (pos-1)*2+1
		if aIdx < n {
			id := teams[aIdx].ID
			m.TeamAID = &id
		} else {
			m.TeamABye = true
		}
		if bIdx < n {
			id := teams[bIdx].ID
			m.TeamBID = &id
		} else {
			m.TeamBBye = true
		}

		bracket.Matches = append(bracket.Matches, m)
		current = append(current, resolveNode(m))
	}

	// Rounds 2..rounds: each match consumes two feeder nodes.
	for r := 2; r <= rounds; r++ {
		next := make([]*node, 0, len(current)/2)
		for pos := 1; pos <= len(current)/2; pos++ {
			m := newMatch(r, pos)

			feedSlot(m, models.SlotA, current[(pos-1)*2])
			feedSlot(m, models.SlotB, current[(pos-1)*2+1])
			linkParent(current[(pos-1)*2], m)
			linkParent(current[(pos-1)*2+1], m)

			bracket.Matches = append(bracket.Matches, m)
			next = append(next, resolveNode(m))
		}
		current = next
	}

	if len(current) != 1 {
		return nil, fmt.Errorf("internal error: bracket for %d teams collapsed to %d final nodes", n, len(current))
	}
	return bracket, nil
}

// feedSlot fills one side of a parent match from a feeder node: a resolved
// team, a bye placeholder, or nothing (awaiting the feeder's winner).
func feedSlot(m *models.Match, slot models.MatchSlot, from *node) {
	switch {
	case from.teamID != nil:
		id := *from.teamID
		if slot == models.SlotA {
			m.TeamAID = &id
		} else {
			m.TeamBID = &id
		}
	case from.bye:
		if slot == models.SlotA {
			m.TeamABye = true
		} else {
			m.TeamBBye = true
		}
	}
}

func linkParent(from *node, parent *models.Match) {
	if from.match == nil {
		return
	}
	parentID := parent.ID
	from.match.ParentMatchID = &parentID
}

// resolveNode decides a freshly created match's generation-time outcome.
// A match whose opposition is a bye never gets played: it is marked as a
// walkover right away and its sole team (if any) advances.
func resolveNode(m *models.Match) *node {
	aPresent := m.TeamAID != nil
	bPresent := m.TeamBID != nil

	switch {
	case aPresent && m.TeamBBye:
		m.Status = models.StatusWalkover
		m.WinnerID = m.TeamAID
		return &node{match: m, teamID: m.TeamAID}
	case bPresent && m.TeamABye:
		m.Status = models.StatusWalkover
		m.WinnerID = m.TeamBID
		return &node{match: m, teamID: m.TeamBID}
	case m.TeamABye && m.TeamBBye:
		// Two byes met. The match exists for structural completeness but
		// nobody advances from it.
		m.Status = models.StatusWalkover
		return &node{match: m, bye: true}
	default:
		return &node{match: m}
	}
}

// AdvanceWinner propagates a completed feeder's winner into the appropriate
// slot of its parent match, determined by the feeder's position parity.
// Propagation runs one level per completion event: when the parent itself
// resolves as a walkover (its other slot is a bye placeholder), the function
// reports it so the caller can treat that as a new completion event.
func AdvanceWinner(feeder, parent *models.Match) (walkover bool, err error) {
	if feeder == nil || parent == nil {
		return false, fmt.Errorf("advance winner: feeder and parent are required")
	}
	if feeder.Status != models.StatusCompleted && feeder.Status != models.StatusWalkover {
		return false, fmt.Errorf("advance winner: match %d is %q, not finished", feeder.ID, feeder.Status)
	}
	if feeder.WinnerID == nil {
		return false, fmt.Errorf("advance winner: match %d has no winner to advance", feeder.ID)
	}
	if feeder.ParentMatchID == nil {
		return false, fmt.Errorf("advance winner: match %d is the final, nothing to propagate", feeder.ID)
	}
	if *feeder.ParentMatchID != parent.ID {
		return false, fmt.Errorf("advance winner: match %d feeds match %d, got match %d", feeder.ID, *feeder.ParentMatchID, parent.ID)
	}
	if parent.Status.IsTerminal() {
		return false, fmt.Errorf("advance winner: parent match %d is already %q", parent.ID, parent.Status)
	}

	winnerID := *feeder.WinnerID
	if feeder.ParentSlot() == models.SlotA {
		parent.TeamAID = &winnerID
	} else {
		parent.TeamBID = &winnerID
	}

	// A bye placeholder on the other side means the parent needs no play.
	if (feeder.ParentSlot() == models.SlotA && parent.TeamBBye) ||
		(feeder.ParentSlot() == models.SlotB && parent.TeamABye) {
		parent.Status = models.StatusWalkover
		parent.WinnerID = &winnerID
		return true, nil
	}
	return false, nil
}

// FindParent resolves a feeder's parent within a generated bracket.
func FindParent(b *Bracket, feeder *models.Match) *models.Match {
	if feeder == nil || feeder.ParentMatchID == nil {
		return nil
	}
	for _, m := range b.Matches {
		if m.ID == *feeder.ParentMatchID {
			return m
		}
	}
	return nil
}

// Final returns the bracket's last match.
func Final(b *Bracket) *models.Match {
	for _, m := range b.Matches {
		if m.Round == b.Rounds && m.Position == 1 {
			return m
		}
	}
	return nil
}

// Champion returns the tournament winner's team id once the final is
// decided, nil before that.
func Champion(b *Bracket) *int {
	final := Final(b)
	if final == nil {
		return nil
	}
	if final.Status != models.StatusCompleted && final.Status != models.StatusWalkover {
		return nil
	}
	return final.WinnerID
}

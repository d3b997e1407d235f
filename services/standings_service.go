package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/courtside/competition-engine/models"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
	formLength    = 5
)

// StandingsService folds an event's completed matches into per-team
// aggregates and a deterministically ordered ranking table. Everything is
// recomputed from the match set on each call; nothing is cached or persisted.
type StandingsService interface {
	TeamStats(teamID int, matches []*models.Match) models.TeamStats
	BuildTable(ctx context.Context, teams []*models.Team, matches []*models.Match) ([]models.RankingEntry, error)
	TeamForm(teamID int, matches []*models.Match) models.TeamForm
}

type standingsService struct {
	logger *slog.Logger
}

func NewStandingsService(logger *slog.Logger) StandingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &standingsService{logger: logger}
}

// qualifies reports whether the match counts towards the given team's
// standings: completed, the team participates, and both scores recorded.
// A malformed record is skipped with a warning so one bad row does not
// prevent ranking the rest.
func (s *standingsService) qualifies(m *models.Match, teamID int) bool {
	if m == nil || m.Status != models.StatusCompleted {
		return false
	}
	if !m.HasTeam(teamID) {
		return false
	}
	if m.ScoreA == nil || m.ScoreB == nil {
		s.logger.Warn("skipping malformed match record",
			slog.Int("match_id", m.ID),
			slog.String("error", ErrStandingsInput.Error()))
		return false
	}
	return true
}

// ownAndOpponentScore splits a match's score pair into the given team's
// perspective. Call only on qualifying matches.
func ownAndOpponentScore(m *models.Match, teamID int) (own, opponent int) {
	if m.TeamAID != nil && *m.TeamAID == teamID {
		return *m.ScoreA, *m.ScoreB
	}
	return *m.ScoreB, *m.ScoreA
}

func (s *standingsService) TeamStats(teamID int, matches []*models.Match) models.TeamStats {
	stats := models.TeamStats{TeamID: teamID}
	for _, m := range matches {
		if !s.qualifies(m, teamID) {
			continue
		}
		own, opp := ownAndOpponentScore(m, teamID)

		stats.Played++
		stats.GoalsFor += own
		stats.GoalsAgainst += opp
		switch {
		case own > opp:
			stats.Wins++
			stats.Points += pointsPerWin
		case own == opp:
			stats.Draws++
			stats.Points += pointsPerDraw
		default:
			stats.Losses++
		}
	}
	stats.GoalDifference = stats.GoalsFor - stats.GoalsAgainst
	return stats
}

// BuildTable ranks all supplied teams. Ordering: descending points, then
// goal difference, then goals for, then matches played; ties beyond that keep
// the input order (stable sort), so the result is fully deterministic.
func (s *standingsService) BuildTable(ctx context.Context, teams []*models.Team, matches []*models.Match) ([]models.RankingEntry, error) {
	entries := make([]models.RankingEntry, len(teams))

	g, _ := errgroup.WithContext(ctx)
	for i, team := range teams {
		if team == nil {
			return nil, fmt.Errorf("standings: nil team at index %d", i)
		}
		i, team := i, team
		g.Go(func() error {
			entries[i] = models.RankingEntry{
				TeamStats: s.TeamStats(team.ID, matches),
				Team:      team,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Played > b.Played
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries, nil
}

// TeamForm derives the auxiliary metrics: last-5 form string, win rate,
// average goals per match and the full history, all ordered by completion
// time descending.
func (s *standingsService) TeamForm(teamID int, matches []*models.Match) models.TeamForm {
	form := models.TeamForm{TeamID: teamID}

	for _, m := range matches {
		if !s.qualifies(m, teamID) {
			continue
		}
		own, opp := ownAndOpponentScore(m, teamID)

		outcome := models.OutcomeDraw
		switch {
		case own > opp:
			outcome = models.OutcomeWin
		case own < opp:
			outcome = models.OutcomeLoss
		}

		completedAt := time.Time{}
		if m.CompletedAt != nil {
			completedAt = *m.CompletedAt
		}
		form.History = append(form.History, models.MatchPerformance{
			MatchID:      m.ID,
			Outcome:      outcome,
			GoalsFor:     own,
			GoalsAgainst: opp,
			CompletedAt:  completedAt,
		})
	}

	sort.SliceStable(form.History, func(i, j int) bool {
		return form.History[i].CompletedAt.After(form.History[j].CompletedAt)
	})

	wins := 0
	goals := 0
	for i, p := range form.History {
		if i < formLength {
			form.Form += string(p.Outcome)
		}
		if p.Outcome == models.OutcomeWin {
			wins++
		}
		goals += p.GoalsFor
	}
	if played := len(form.History); played > 0 {
		form.WinRate = float64(wins) / float64(played)
		form.AvgGoalsFor = float64(goals) / float64(played)
	}
	return form
}

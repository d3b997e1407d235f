package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/courtside/competition-engine/brackets"
	"github.com/courtside/competition-engine/config"
	"github.com/courtside/competition-engine/models"
	"github.com/courtside/competition-engine/services"
)

// simClock is the injected wall clock: the simulation advances it manually,
// so timed matches play out instantly and deterministically.
type simClock struct {
	t time.Time
}

func (c *simClock) Now() time.Time {
	return c.t
}

func (c *simClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type simulator struct {
	cfg    *config.Config
	logger *slog.Logger
	rng    *rand.Rand
	clock  *simClock

	matches   services.MatchService
	standings services.StandingsService
}

func newSimulator(cfg *config.Config, logger *slog.Logger, seed int64) *simulator {
	clock := &simClock{t: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)}
	notifier := &slogNotifier{logger: logger}
	return &simulator{
		cfg:       cfg,
		logger:    logger,
		rng:       rand.New(rand.NewSource(seed)),
		clock:     clock,
		matches:   services.NewMatchService(clock.Now, notifier, logger),
		standings: services.NewStandingsService(logger),
	}
}

func makeTeams(n int) []*models.Team {
	teams := make([]*models.Team, 0, n)
	for i := 1; i <= n; i++ {
		teams = append(teams, &models.Team{ID: i, Name: fmt.Sprintf("Team %02d", i)})
	}
	return teams
}

func (s *simulator) runKnockout(ctx context.Context, teamCount, pointsToWin int) error {
	if pointsToWin <= 0 {
		pointsToWin = s.cfg.PointsToWin
	}
	rules := models.MatchRules{
		GameMode:      models.GameModePoints,
		PointsToWin:   pointsToWin,
		ShouldAutoEnd: true,
	}

	teams := makeTeams(teamCount)
	gen := brackets.NewSingleEliminationGenerator()
	bracket, err := gen.GenerateBracket(ctx, brackets.GenerateParams{EventID: 1, Teams: teams})
	if err != nil {
		return err
	}
	s.logger.Info("bracket generated",
		slog.Int("teams", teamCount),
		slog.Int("rounds", bracket.Rounds),
		slog.Int("matches", bracket.TotalMatches),
		slog.Int("byes", bracket.ByeCount))

	// Matches are ordered round-major, so every feeder is decided before its
	// parent comes up.
	for _, m := range bracket.Matches {
		if m.Status != models.StatusScheduled || m.TeamAID == nil || m.TeamBID == nil {
			continue
		}
		if err := s.playToPointsLimit(m, rules); err != nil {
			return err
		}
		if err := s.propagate(bracket, m); err != nil {
			return err
		}
	}

	s.printBracket(bracket, teams)
	return nil
}

// playToPointsLimit scores in random bursts until the points limit ends the
// match via the auto-completion rule.
func (s *simulator) playToPointsLimit(m *models.Match, rules models.MatchRules) error {
	if err := s.matches.StartTimer(m, rules); err != nil {
		return err
	}
	for {
		teamID := *m.TeamAID
		if s.rng.Intn(2) == 1 {
			teamID = *m.TeamBID
		}
		delta := 1 + s.rng.Intn(3)
		if s.rng.Intn(12) == 0 {
			delta = -1 // referee correction
		}

		signal, err := s.matches.ApplyScore(m, rules, teamID, delta)
		if err != nil {
			return err
		}
		s.clock.Advance(time.Duration(5+s.rng.Intn(20)) * time.Second)
		if signal != nil {
			return nil
		}
	}
}

// propagate pushes a finished match's winner up the bracket, following
// walkover resolutions level by level.
func (s *simulator) propagate(bracket *brackets.Bracket, feeder *models.Match) error {
	for feeder.ParentMatchID != nil {
		parent := brackets.FindParent(bracket, feeder)
		if parent == nil {
			return fmt.Errorf("match %d references missing parent %d", feeder.ID, *feeder.ParentMatchID)
		}
		walkover, err := brackets.AdvanceWinner(feeder, parent)
		if err != nil {
			return err
		}
		if !walkover {
			return nil
		}
		feeder = parent
	}
	return nil
}

func (s *simulator) printBracket(bracket *brackets.Bracket, teams []*models.Team) {
	view := brackets.ProjectView(bracket.Matches, teams)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	round := 0
	for _, bm := range view {
		if bm.Round != round {
			round = bm.Round
			fmt.Fprintf(w, "-- Round %d --\t\t\t\n", round)
		}
		fmt.Fprintf(w, "%s\t%s %s - %s %s\t[%s]\t%s\n",
			*bm.BracketUID,
			bm.TeamAName, scoreText(bm.ScoreA),
			scoreText(bm.ScoreB), bm.TeamBName,
			bm.Status, bm.WinnerName)
	}
	w.Flush()

	if champion := brackets.Champion(bracket); champion != nil {
		for _, t := range teams {
			if t.ID == *champion {
				fmt.Printf("\nChampion: %s\n", t.Name)
			}
		}
	}
}

func scoreText(score *int) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *score)
}

func (s *simulator) runLeague(ctx context.Context, teamCount int, double bool) error {
	rules := models.MatchRules{
		GameMode:        models.GameModeTime,
		DurationMinutes: s.cfg.DurationMinutes,
		ShouldAutoEnd:   true,
	}

	legs := 1
	if double {
		legs = 2
	}
	teams := makeTeams(teamCount)
	gen := brackets.NewRoundRobinGenerator(legs)
	schedule, err := gen.GenerateBracket(ctx, brackets.GenerateParams{EventID: 1, Teams: teams})
	if err != nil {
		return err
	}
	s.logger.Info("league schedule generated",
		slog.Int("teams", teamCount),
		slog.Int("matchdays", schedule.Rounds),
		slog.Int("matches", schedule.TotalMatches))

	for _, m := range schedule.Matches {
		if err := s.playToFullTime(m, rules); err != nil {
			return err
		}
	}

	table, err := s.standings.BuildTable(ctx, teams, schedule.Matches)
	if err != nil {
		return err
	}
	s.printTable(table)

	if len(table) > 0 {
		leader := table[0]
		form := s.standings.TeamForm(leader.TeamID, schedule.Matches)
		fmt.Printf("\nLeader form (last %d): %s, win rate %.0f%%\n",
			len(form.Form), form.Form, form.WinRate*100)
	}
	return nil
}

// playToFullTime lets the clock run in bursts, scoring along the way, until
// the time limit ends the match. The occasional pause/resume keeps the
// frozen-clock path honest.
func (s *simulator) playToFullTime(m *models.Match, rules models.MatchRules) error {
	if err := s.matches.StartTimer(m, rules); err != nil {
		return err
	}
	for {
		s.clock.Advance(time.Duration(30+s.rng.Intn(90)) * time.Second)

		if s.rng.Intn(4) == 0 {
			teamID := *m.TeamAID
			if s.rng.Intn(2) == 1 {
				teamID = *m.TeamBID
			}
			signal, err := s.matches.ApplyScore(m, rules, teamID, 1)
			if err != nil {
				return err
			}
			if signal != nil {
				return nil
			}
		}

		if s.rng.Intn(10) == 0 {
			if err := s.matches.PauseTimer(m); err != nil {
				return err
			}
			s.clock.Advance(time.Duration(1+s.rng.Intn(5)) * time.Minute)
			if err := s.matches.ResumeTimer(m); err != nil {
				return err
			}
		}

		signal, err := s.matches.SyncTimer(m, rules)
		if err != nil {
			return err
		}
		if signal != nil {
			return nil
		}
	}
}

func (s *simulator) printTable(table []models.RankingEntry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTeam\tP\tW\tD\tL\tGF\tGA\tGD\tPts")
	for _, e := range table {
		name := fmt.Sprintf("Team (ID: %d)", e.TeamID)
		if e.Team != nil {
			name = e.Team.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\t%d\n",
			e.Position, name, e.Played, e.Wins, e.Draws, e.Losses,
			e.GoalsFor, e.GoalsAgainst, e.GoalDifference, e.Points)
	}
	w.Flush()
}

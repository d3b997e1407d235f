// Command compsim simulates competitions against the rules engine: it
// generates a knockout bracket or a league schedule, plays every match
// through the match state machine and prints the outcome.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtside/competition-engine/config"
	"github.com/courtside/competition-engine/services"
)

type slogNotifier struct {
	logger *slog.Logger
}

func (n *slogNotifier) MatchCompleted(signal services.CompletionSignal) {
	n.logger.Info("completion signal",
		slog.String("signal_id", signal.ID.String()),
		slog.Int("match_id", signal.MatchID),
		slog.String("reason", string(signal.Reason)),
		slog.Bool("draw", signal.Draw))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	var (
		teamCount int
		seed      int64
	)

	root := &cobra.Command{
		Use:           "compsim",
		Short:         "Simulate competitions against the rules engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVar(&teamCount, "teams", 8, "number of teams in the draw")
	root.PersistentFlags().Int64Var(&seed, "seed", 1, "seed for the pseudo-random score stream")

	var pointsToWin int
	knockout := &cobra.Command{
		Use:   "knockout",
		Short: "Play a single-elimination tournament to its champion",
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := newSimulator(cfg, logger, seed)
			return sim.runKnockout(cmd.Context(), teamCount, pointsToWin)
		},
	}
	knockout.Flags().IntVar(&pointsToWin, "points-to-win", 0, "override the configured points-to-win limit")

	var double bool
	league := &cobra.Command{
		Use:   "league",
		Short: "Play a round-robin season and print the standings table",
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := newSimulator(cfg, logger, seed)
			return sim.runLeague(cmd.Context(), teamCount, double)
		},
	}
	league.Flags().BoolVar(&double, "double", false, "play a double round-robin (return fixtures)")

	root.AddCommand(knockout, league)

	if err := root.Execute(); err != nil {
		logger.Error("simulation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/competition-engine/models"
)

type CompletionReason string

const (
	ReasonScoreLimit  CompletionReason = "SCORE_LIMIT_REACHED"
	ReasonTimeExpired CompletionReason = "TIME_EXPIRED"
	ReasonManualStop  CompletionReason = "MANUAL_STOP"
)

// CompletionSignal is emitted once per match completion so the caller can
// trigger bracket propagation and persist both writes in one atomic unit.
// The ID lets a downstream consumer deduplicate redelivered signals.
type CompletionSignal struct {
	ID          uuid.UUID        `json:"id"`
	MatchID     int              `json:"match_id"`
	EventID     int              `json:"event_id"`
	WinnerID    *int             `json:"winner_id,omitempty"`
	Draw        bool             `json:"draw"`
	Reason      CompletionReason `json:"reason"`
	CompletedAt time.Time        `json:"completed_at"`
}

// CompletionNotifier receives completion signals. Delivery beyond this
// callback is the caller's concern.
type CompletionNotifier interface {
	MatchCompleted(signal CompletionSignal)
}

// MatchService owns the match life cycle: status transitions, timer actions,
// score application and the auto-completion rules. Every operation validates
// fully before mutating, so a failed call leaves the match untouched. The
// caller must serialize mutations per match id; the service holds no locks
// and no state of its own.
type MatchService interface {
	StartTimer(m *models.Match, rules models.MatchRules) error
	PauseTimer(m *models.Match) error
	ResumeTimer(m *models.Match) error
	ResetTimer(m *models.Match) error
	SyncTimer(m *models.Match, rules models.MatchRules) (*CompletionSignal, error)

	ApplyScore(m *models.Match, rules models.MatchRules, teamID, points int) (*CompletionSignal, error)

	EndMatch(m *models.Match) (*CompletionSignal, error)
	CancelMatch(m *models.Match) error

	CanDelete(m *models.Match, children []*models.Match) error
}

type matchService struct {
	now      func() time.Time
	notifier CompletionNotifier
	logger   *slog.Logger
}

// NewMatchService wires the state machine with an injectable clock so timer
// logic stays testable without real sleeps. notifier may be nil when the
// caller polls results instead of reacting to signals.
func NewMatchService(now func() time.Time, notifier CompletionNotifier, logger *slog.Logger) MatchService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		now:      now,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *matchService) StartTimer(m *models.Match, rules models.MatchRules) error {
	if m.Status != models.StatusScheduled {
		return fmt.Errorf("%w: cannot start match %d in status %q", ErrInvalidStateTransition, m.ID, m.Status)
	}
	if err := rules.Validate(); err != nil {
		return err
	}

	now := s.now()
	nowMillis := now.UnixMilli()

	m.Status = models.StatusLive
	m.StartedAt = &now
	m.Timer.IsPaused = false
	m.Timer.LastUpdateMillis = &nowMillis
	if m.Timer.StartMillis == nil {
		m.Timer.StartMillis = &nowMillis
	}
	m.Timer.TotalDuration = rules.TotalDurationSeconds()

	s.logger.Info("match started",
		slog.Int("match_id", m.ID),
		slog.String("game_mode", string(rules.GameMode)))
	return nil
}

func (s *matchService) PauseTimer(m *models.Match) error {
	if m.Status != models.StatusLive {
		return fmt.Errorf("%w: cannot pause match %d in status %q", ErrInvalidStateTransition, m.ID, m.Status)
	}
	if m.Timer.IsPaused {
		return fmt.Errorf("%w: match %d timer is already paused", ErrInvalidStateTransition, m.ID)
	}

	now := s.now()
	nowMillis := now.UnixMilli()

	// Freeze the clock at its value as of this instant.
	m.Timer.CurrentTime = CurrentElapsed(m.Timer, m.Status, m.Timer.TotalDuration, now)
	m.Timer.IsPaused = true
	m.Timer.LastUpdateMillis = &nowMillis
	return nil
}

func (s *matchService) ResumeTimer(m *models.Match) error {
	if m.Status != models.StatusLive {
		return fmt.Errorf("%w: cannot resume match %d in status %q", ErrInvalidStateTransition, m.ID, m.Status)
	}
	if !m.Timer.IsPaused {
		return fmt.Errorf("%w: match %d timer is not paused", ErrInvalidStateTransition, m.ID)
	}

	nowMillis := s.now().UnixMilli()
	m.Timer.IsPaused = false
	m.Timer.LastUpdateMillis = &nowMillis
	return nil
}

func (s *matchService) ResetTimer(m *models.Match) error {
	if m.Status.IsTerminal() {
		return fmt.Errorf("%w: cannot reset match %d in status %q", ErrInvalidStateTransition, m.ID, m.Status)
	}

	nowMillis := s.now().UnixMilli()
	m.Timer.CurrentTime = 0
	m.Timer.IsPaused = true
	m.Timer.StartMillis = nil
	m.Timer.LastUpdateMillis = &nowMillis
	return nil
}

// SyncTimer refreshes the persisted elapsed time of a live match and
// evaluates the time-limit auto-completion rule. It is the carrier for
// "timer events": callers invoke it on every poll so an expired clock ends
// the match even when nobody is scoring.
func (s *matchService) SyncTimer(m *models.Match, rules models.MatchRules) (*CompletionSignal, error) {
	if m.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: match %d is %q", ErrMatchNotModifiable, m.ID, m.Status)
	}
	if m.Status != models.StatusLive {
		return nil, nil
	}

	now := s.now()
	elapsed := CurrentElapsed(m.Timer, m.Status, m.Timer.TotalDuration, now)
	m.Timer.CurrentTime = elapsed
	if !m.Timer.IsPaused {
		nowMillis := now.UnixMilli()
		m.Timer.LastUpdateMillis = &nowMillis
	}

	if rules.ShouldAutoEnd && rules.GameMode == models.GameModeTime &&
		elapsed >= float64(rules.TotalDurationSeconds()) {
		return s.complete(m, ReasonTimeExpired), nil
	}
	return nil, nil
}

func (s *matchService) ApplyScore(m *models.Match, rules models.MatchRules, teamID, points int) (*CompletionSignal, error) {
	if !isValidScoreDelta(points) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidScoreDelta, points)
	}
	if !m.HasTeam(teamID) {
		return nil, fmt.Errorf("%w: team %d, match %d", ErrTeamNotInMatch, teamID, m.ID)
	}
	// Pre-seeding a score on a scheduled match is allowed so an organizer
	// can record points before starting the clock.
	if m.Status != models.StatusScheduled && m.Status != models.StatusLive {
		return nil, fmt.Errorf("%w: match %d is %q", ErrMatchNotModifiable, m.ID, m.Status)
	}

	if m.TeamAID != nil && *m.TeamAID == teamID {
		next := applyScoreDelta(m.ScoreA, points)
		m.ScoreA = &next
	} else {
		next := applyScoreDelta(m.ScoreB, points)
		m.ScoreB = &next
	}

	if !rules.ShouldAutoEnd {
		return nil, nil
	}
	return s.evaluateAutoEnd(m, rules), nil
}

// evaluateAutoEnd checks the completion thresholds and, when one is reached,
// completes the match within the same action. Returns nil when the match
// stays in play.
func (s *matchService) evaluateAutoEnd(m *models.Match, rules models.MatchRules) *CompletionSignal {
	switch rules.GameMode {
	case models.GameModePoints:
		if scoreValue(m.ScoreA) >= rules.PointsToWin || scoreValue(m.ScoreB) >= rules.PointsToWin {
			return s.complete(m, ReasonScoreLimit)
		}
	case models.GameModeTime:
		elapsed := CurrentElapsed(m.Timer, m.Status, m.Timer.TotalDuration, s.now())
		if elapsed >= float64(rules.TotalDurationSeconds()) {
			return s.complete(m, ReasonTimeExpired)
		}
	}
	return nil
}

// EndMatch forces completion regardless of the auto-end thresholds, using
// the same winner-determination rule as auto-completion.
func (s *matchService) EndMatch(m *models.Match) (*CompletionSignal, error) {
	if m.Status != models.StatusScheduled && m.Status != models.StatusLive {
		return nil, fmt.Errorf("%w: cannot end match %d in status %q", ErrInvalidStateTransition, m.ID, m.Status)
	}
	return s.complete(m, ReasonManualStop), nil
}

func (s *matchService) CancelMatch(m *models.Match) error {
	if m.Status != models.StatusScheduled && m.Status != models.StatusLive {
		return fmt.Errorf("%w: cannot cancel match %d in status %q", ErrInvalidStateTransition, m.ID, m.Status)
	}

	now := s.now()
	m.Timer.CurrentTime = CurrentElapsed(m.Timer, m.Status, m.Timer.TotalDuration, now)
	m.Timer.IsPaused = true
	m.Status = models.StatusCancelled

	s.logger.Info("match cancelled", slog.Int("match_id", m.ID))
	return nil
}

// complete is the shared completion procedure for auto- and manual endings:
// freeze the clock, resolve the winner, stamp the completion time and emit
// the completion signal.
func (s *matchService) complete(m *models.Match, reason CompletionReason) *CompletionSignal {
	now := s.now()

	m.Timer.CurrentTime = CurrentElapsed(m.Timer, m.Status, m.Timer.TotalDuration, now)
	m.Timer.IsPaused = true

	m.WinnerID = decideWinner(m)
	m.Status = models.StatusCompleted
	m.CompletedAt = &now

	signal := CompletionSignal{
		ID:          uuid.New(),
		MatchID:     m.ID,
		EventID:     m.EventID,
		WinnerID:    m.WinnerID,
		Draw:        m.WinnerID == nil,
		Reason:      reason,
		CompletedAt: now,
	}

	s.logger.Info("match completed",
		slog.Int("match_id", m.ID),
		slog.String("reason", string(reason)),
		slog.Bool("draw", signal.Draw))

	if s.notifier != nil {
		s.notifier.MatchCompleted(signal)
	}
	return &signal
}

// CanDelete checks the delete policy: only scheduled, cancelled or walkover
// matches without bracket descendants may be removed. The returned error
// carries the concrete reason; nil means deletable.
func (s *matchService) CanDelete(m *models.Match, children []*models.Match) error {
	for _, child := range children {
		if child != nil && child.ParentMatchID != nil && *child.ParentMatchID == m.ID {
			return fmt.Errorf("%w: match %d is referenced by match %d", ErrMatchNotDeletable, m.ID, child.ID)
		}
	}
	switch m.Status {
	case models.StatusLive:
		return fmt.Errorf("%w: match %d is live", ErrMatchNotDeletable, m.ID)
	case models.StatusCompleted:
		return fmt.Errorf("%w: match %d is completed", ErrMatchNotDeletable, m.ID)
	}
	return nil
}

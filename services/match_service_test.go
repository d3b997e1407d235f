package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/courtside/competition-engine/models"
)

type stubClock struct {
	t time.Time
}

func (c *stubClock) now() time.Time {
	return c.t
}

func (c *stubClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type captureNotifier struct {
	signals []CompletionSignal
}

func (n *captureNotifier) MatchCompleted(signal CompletionSignal) {
	n.signals = append(n.signals, signal)
}

func newTestService() (MatchService, *stubClock, *captureNotifier) {
	clock := &stubClock{t: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)}
	notifier := &captureNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMatchService(clock.now, notifier, logger), clock, notifier
}

func intPtr(v int) *int {
	return &v
}

func newPairedMatch() *models.Match {
	return &models.Match{
		ID:      1,
		EventID: 1,
		TeamAID: intPtr(10),
		TeamBID: intPtr(20),
		Status:  models.StatusScheduled,
	}
}

func timeRules(minutes int) models.MatchRules {
	return models.MatchRules{
		GameMode:        models.GameModeTime,
		DurationMinutes: minutes,
		ShouldAutoEnd:   true,
	}
}

func pointsRules(limit int) models.MatchRules {
	return models.MatchRules{
		GameMode:      models.GameModePoints,
		PointsToWin:   limit,
		ShouldAutoEnd: true,
	}
}

func TestStartTimer(t *testing.T) {
	svc, clock, _ := newTestService()
	m := newPairedMatch()

	if err := svc.StartTimer(m, timeRules(10)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if m.Status != models.StatusLive {
		t.Errorf("expected live status, got %q", m.Status)
	}
	if m.StartedAt == nil || !m.StartedAt.Equal(clock.t) {
		t.Errorf("expected StartedAt=%v, got %v", clock.t, m.StartedAt)
	}
	if m.Timer.IsPaused {
		t.Error("timer should be running after start")
	}
	if m.Timer.LastUpdateMillis == nil || *m.Timer.LastUpdateMillis != clock.t.UnixMilli() {
		t.Error("last-update stamp not set to the start instant")
	}
	if m.Timer.TotalDuration != 600 {
		t.Errorf("expected total duration 600s, got %d", m.Timer.TotalDuration)
	}

	// Starting again is illegal.
	if err := svc.StartTimer(m, timeRules(10)); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestPauseAndResume(t *testing.T) {
	svc, clock, _ := newTestService()
	m := newPairedMatch()

	if err := svc.PauseTimer(m); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("pause before start: expected ErrInvalidStateTransition, got %v", err)
	}

	if err := svc.StartTimer(m, timeRules(10)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.advance(30 * time.Second)

	if err := svc.PauseTimer(m); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if m.Timer.CurrentTime != 30 {
		t.Errorf("expected clock frozen at 30s, got %v", m.Timer.CurrentTime)
	}
	if !m.Timer.IsPaused {
		t.Error("timer should be paused")
	}
	if err := svc.PauseTimer(m); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("double pause: expected ErrInvalidStateTransition, got %v", err)
	}

	// Wall time during the pause must not leak into the clock.
	clock.advance(5 * time.Minute)
	if err := svc.ResumeTimer(m); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	clock.advance(10 * time.Second)
	got := CurrentElapsed(m.Timer, m.Status, m.Timer.TotalDuration, clock.t)
	if got != 40 {
		t.Errorf("expected 40s elapsed after pause gap, got %v", got)
	}
}

func TestResetTimer(t *testing.T) {
	svc, clock, _ := newTestService()
	m := newPairedMatch()

	if err := svc.StartTimer(m, timeRules(10)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	clock.advance(2 * time.Minute)

	if err := svc.ResetTimer(m); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if m.Timer.CurrentTime != 0 || !m.Timer.IsPaused || m.Timer.StartMillis != nil {
		t.Errorf("reset left timer in state %+v", m.Timer)
	}
}

func TestApplyScoreDeltas(t *testing.T) {
	tests := []struct {
		name      string
		initial   *int
		points    int
		expected  int
		expectErr error
	}{
		{"plus one", intPtr(5), 1, 6, nil},
		{"plus two", intPtr(5), 2, 7, nil},
		{"plus three", intPtr(5), 3, 8, nil},
		{"minus one", intPtr(5), -1, 4, nil},
		{"first points", nil, 2, 2, nil},
		{"clamped at zero", intPtr(0), -1, 0, nil},
		{"clamped from nil", nil, -1, 0, nil},
		{"zero rejected", intPtr(5), 0, 0, ErrInvalidScoreDelta},
		{"plus four rejected", intPtr(5), 4, 0, ErrInvalidScoreDelta},
		{"minus two rejected", intPtr(5), -2, 0, ErrInvalidScoreDelta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService()
			m := newPairedMatch()
			m.ScoreA = tt.initial

			_, err := svc.ApplyScore(m, pointsRules(100), *m.TeamAID, tt.points)
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected %v, got %v", tt.expectErr, err)
				}
				if scoreValue(m.ScoreA) != scoreValue(tt.initial) {
					t.Errorf("score mutated on rejected delta: %v", m.ScoreA)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.ScoreA == nil || *m.ScoreA != tt.expected {
				t.Errorf("expected score %d, got %v", tt.expected, m.ScoreA)
			}
			if m.ScoreB != nil {
				t.Errorf("opponent score must stay untouched, got %v", m.ScoreB)
			}
		})
	}
}

func TestApplyScoreTeamNotInMatch(t *testing.T) {
	svc, _, _ := newTestService()
	m := newPairedMatch()

	if _, err := svc.ApplyScore(m, pointsRules(11), 999, 1); !errors.Is(err, ErrTeamNotInMatch) {
		t.Errorf("expected ErrTeamNotInMatch, got %v", err)
	}
}

func TestApplyScorePreSeedOnScheduled(t *testing.T) {
	svc, _, _ := newTestService()
	m := newPairedMatch()

	if _, err := svc.ApplyScore(m, pointsRules(11), *m.TeamBID, 3); err != nil {
		t.Fatalf("pre-seeding a scheduled match must be allowed: %v", err)
	}
	if m.Status != models.StatusScheduled {
		t.Errorf("pre-seeding must not change status, got %q", m.Status)
	}
	if m.ScoreB == nil || *m.ScoreB != 3 {
		t.Errorf("expected score 3, got %v", m.ScoreB)
	}
}

func TestTerminalStatusesRejectAllActions(t *testing.T) {
	for _, status := range []models.MatchStatus{models.StatusCompleted, models.StatusCancelled, models.StatusWalkover} {
		t.Run(string(status), func(t *testing.T) {
			svc, _, _ := newTestService()
			m := newPairedMatch()
			m.Status = status
			m.ScoreA = intPtr(4)

			if _, err := svc.ApplyScore(m, pointsRules(11), *m.TeamAID, 1); !errors.Is(err, ErrMatchNotModifiable) {
				t.Errorf("score on %s: expected ErrMatchNotModifiable, got %v", status, err)
			}
			if *m.ScoreA != 4 {
				t.Errorf("score mutated on terminal match: %v", *m.ScoreA)
			}

			timerActions := map[string]func() error{
				"start":  func() error { return svc.StartTimer(m, timeRules(10)) },
				"pause":  func() error { return svc.PauseTimer(m) },
				"resume": func() error { return svc.ResumeTimer(m) },
				"reset":  func() error { return svc.ResetTimer(m) },
				"cancel": func() error { return svc.CancelMatch(m) },
				"end": func() error {
					_, err := svc.EndMatch(m)
					return err
				},
			}
			for name, action := range timerActions {
				if err := action(); !errors.Is(err, ErrInvalidStateTransition) {
					t.Errorf("%s on %s: expected ErrInvalidStateTransition, got %v", name, status, err)
				}
			}
			if m.Status != status {
				t.Errorf("status changed from %s to %s", status, m.Status)
			}
		})
	}
}

func TestAutoEndOnScoreLimit(t *testing.T) {
	svc, _, notifier := newTestService()
	m := newPairedMatch()
	m.ScoreA = intPtr(10)
	m.ScoreB = intPtr(9)

	if err := svc.StartTimer(m, pointsRules(11)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	signal, err := svc.ApplyScore(m, pointsRules(11), *m.TeamAID, 1)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if signal == nil {
		t.Fatal("expected completion signal at the points limit")
	}
	if signal.Reason != ReasonScoreLimit {
		t.Errorf("expected reason %s, got %s", ReasonScoreLimit, signal.Reason)
	}
	if m.Status != models.StatusCompleted {
		t.Errorf("expected completed status, got %q", m.Status)
	}
	if m.WinnerID == nil || *m.WinnerID != *m.TeamAID {
		t.Errorf("expected winner %d, got %v", *m.TeamAID, m.WinnerID)
	}
	if *m.ScoreA != 11 || *m.ScoreB != 9 {
		t.Errorf("unexpected final score %d-%d", *m.ScoreA, *m.ScoreB)
	}
	if m.CompletedAt == nil {
		t.Error("CompletedAt not stamped")
	}
	if !m.Timer.IsPaused {
		t.Error("timer not frozen on completion")
	}
	if len(notifier.signals) != 1 || notifier.signals[0].ID != signal.ID {
		t.Errorf("expected one notified signal matching the returned one, got %d", len(notifier.signals))
	}
}

func TestNoAutoEndBelowLimit(t *testing.T) {
	svc, _, _ := newTestService()
	m := newPairedMatch()

	if err := svc.StartTimer(m, pointsRules(11)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	signal, err := svc.ApplyScore(m, pointsRules(11), *m.TeamAID, 3)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if signal != nil {
		t.Error("expected no completion below the points limit")
	}
	if m.Status != models.StatusLive {
		t.Errorf("expected match to stay live, got %q", m.Status)
	}
}

func TestNoAutoEndWhenDisabled(t *testing.T) {
	svc, _, _ := newTestService()
	m := newPairedMatch()
	rules := pointsRules(5)
	rules.ShouldAutoEnd = false

	if err := svc.StartTimer(m, rules); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	signal, err := svc.ApplyScore(m, rules, *m.TeamAID, 3)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if signal != nil {
		t.Error("auto-end disabled, expected no signal")
	}
	signal, err = svc.ApplyScore(m, rules, *m.TeamAID, 3)
	if err != nil || signal != nil {
		t.Errorf("auto-end disabled, expected no signal past the limit, got %v/%v", signal, err)
	}
}

func TestSyncTimerExpiresMatch(t *testing.T) {
	svc, clock, _ := newTestService()
	m := newPairedMatch()

	if err := svc.StartTimer(m, timeRules(1)); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	clock.advance(30 * time.Second)
	signal, err := svc.SyncTimer(m, timeRules(1))
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if signal != nil {
		t.Fatal("expected no completion before time expiry")
	}
	if m.Timer.CurrentTime != 30 {
		t.Errorf("expected persisted elapsed 30s, got %v", m.Timer.CurrentTime)
	}

	clock.advance(31 * time.Second)
	signal, err = svc.SyncTimer(m, timeRules(1))
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if signal == nil {
		t.Fatal("expected completion after time expiry")
	}
	if signal.Reason != ReasonTimeExpired {
		t.Errorf("expected reason %s, got %s", ReasonTimeExpired, signal.Reason)
	}
	if m.Timer.CurrentTime != 60 {
		t.Errorf("expected clock capped at 60s, got %v", m.Timer.CurrentTime)
	}
}

func TestManualEndWithDraw(t *testing.T) {
	svc, _, _ := newTestService()
	m := newPairedMatch()
	m.ScoreA = intPtr(7)
	m.ScoreB = intPtr(7)

	if err := svc.StartTimer(m, timeRules(10)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	signal, err := svc.EndMatch(m)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if m.Status != models.StatusCompleted {
		t.Errorf("expected completed status, got %q", m.Status)
	}
	if m.WinnerID != nil {
		t.Errorf("draw must leave winner unset, got %v", m.WinnerID)
	}
	if !signal.Draw {
		t.Error("signal should flag the draw")
	}
	if signal.Reason != ReasonManualStop {
		t.Errorf("expected reason %s, got %s", ReasonManualStop, signal.Reason)
	}
}

func TestCancelMatch(t *testing.T) {
	svc, _, notifier := newTestService()
	m := newPairedMatch()

	if err := svc.CancelMatch(m); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if m.Status != models.StatusCancelled {
		t.Errorf("expected cancelled status, got %q", m.Status)
	}
	if len(notifier.signals) != 0 {
		t.Error("cancellation must not emit a completion signal")
	}
}

func TestCanDelete(t *testing.T) {
	svc, _, _ := newTestService()

	scheduled := newPairedMatch()
	if err := svc.CanDelete(scheduled, nil); err != nil {
		t.Errorf("scheduled match without children must be deletable: %v", err)
	}

	live := newPairedMatch()
	live.Status = models.StatusLive
	if err := svc.CanDelete(live, nil); !errors.Is(err, ErrMatchNotDeletable) {
		t.Errorf("live match: expected ErrMatchNotDeletable, got %v", err)
	}

	completed := newPairedMatch()
	completed.Status = models.StatusCompleted
	if err := svc.CanDelete(completed, nil); !errors.Is(err, ErrMatchNotDeletable) {
		t.Errorf("completed match: expected ErrMatchNotDeletable, got %v", err)
	}

	parent := newPairedMatch()
	child := &models.Match{ID: 2, ParentMatchID: intPtr(parent.ID)}
	if err := svc.CanDelete(parent, []*models.Match{child}); !errors.Is(err, ErrMatchNotDeletable) {
		t.Errorf("referenced parent: expected ErrMatchNotDeletable, got %v", err)
	}

	walkover := newPairedMatch()
	walkover.Status = models.StatusWalkover
	if err := svc.CanDelete(walkover, []*models.Match{{ID: 3}}); err != nil {
		t.Errorf("walkover without referencing children must be deletable: %v", err)
	}
}

package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	timeradapter "studyloop/internal/modules/timer/adapter/out"
	"studyloop/internal/modules/timer/domain"
	timerdto "studyloop/internal/modules/timer/dto"
	timerin "studyloop/internal/modules/timer/port/in"
	"studyloop/internal/modules/timer/service"
	"studyloop/internal/modules/timer/usecase"
	"studyloop/internal/platform/clock"
	apperrors "studyloop/internal/platform/errors"
	"studyloop/internal/platform/logging"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

var short = domain.Durations{Focus: 3 * time.Second, Break: 2 * time.Second, Tick: time.Second}

type switchableIdentity struct {
	owner string
}

func (s *switchableIdentity) CurrentIdentity(context.Context) (string, bool) {
	return s.owner, s.owner != ""
}

func newTimer(t *testing.T, identity *switchableIdentity) (timerin.Usecase, *clock.FakeClock) {
	t.Helper()
	store, err := timeradapter.NewSQLiteSessionStore(filepath.Join(t.TempDir(), "studyloop.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	clk := clock.NewFake(t0)
	engine := service.NewEngine(clk, identity, store, logging.Nop(), service.Options{Durations: short})
	uc := usecase.NewInteractor(engine, store, identity)
	t.Cleanup(uc.Close)
	return uc, clk
}

func runPhase(uc timerin.Usecase, clk *clock.FakeClock, length time.Duration) {
	uc.Start(context.Background())
	clk.Advance(length)
}

func TestStatsAndHistoryFollowIdentity(t *testing.T) {
	t.Parallel()
	identity := &switchableIdentity{owner: "ada"}
	uc, clk := newTimer(t, identity)
	ctx := context.Background()
	events := uc.Subscribe(ctx, 64)

	runPhase(uc, clk, short.Focus)
	runPhase(uc, clk, short.Break)
	runPhase(uc, clk, short.Focus)
	identity.owner = ""
	runPhase(uc, clk, short.Break)

	waitPersisted(t, events, 4)

	identity.owner = "ada"
	stats, err := uc.Stats(ctx, timerdto.StatsInput{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.OwnerID != "ada" || stats.CompletedFocusSessions != 2 || stats.CompletedBreakSessions != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.TotalFocus != 2*short.Focus {
		t.Fatalf("unexpected total focus: %s", stats.TotalFocus)
	}

	anon, err := uc.Stats(ctx, timerdto.StatsInput{OwnerID: domain.AnonymousOwner})
	if err != nil || anon.CompletedBreakSessions != 1 || anon.CompletedFocusSessions != 0 {
		t.Fatalf("unexpected anonymous stats: %+v (%v)", anon, err)
	}

	history, err := uc.History(ctx, timerdto.HistoryInput{Limit: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("limit should cap history, got %d", len(history))
	}
	if !history[0].StartTime.After(history[1].StartTime) {
		t.Fatalf("history must be newest first: %+v", history)
	}
	if history[0].Phase != string(domain.PhaseFocus) || history[0].EndTime.IsZero() {
		t.Fatalf("unexpected newest session: %+v", history[0])
	}
}

func TestHistoryRejectsNegativeLimit(t *testing.T) {
	t.Parallel()
	uc, _ := newTimer(t, &switchableIdentity{})
	if _, err := uc.History(context.Background(), timerdto.HistoryInput{Limit: -1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestStateReflectsOpenSession(t *testing.T) {
	t.Parallel()
	uc, clk := newTimer(t, &switchableIdentity{owner: "ada"})
	ctx := context.Background()

	started := uc.Start(ctx)
	if started.Status != string(domain.StatusRunning) || !started.SessionOpen || started.SessionOwner != "ada" {
		t.Fatalf("unexpected started state: %+v", started)
	}
	clk.Advance(time.Second)
	paused := uc.Pause(ctx)
	if paused.Status != string(domain.StatusPaused) || paused.Remaining != 2*time.Second {
		t.Fatalf("unexpected paused state: %+v", paused)
	}
	if state := uc.State(ctx); state != paused {
		t.Fatalf("state should match the paused snapshot: %+v", state)
	}
	reset := uc.Reset(ctx)
	if reset.SessionOpen || reset.Status != string(domain.StatusIdle) || reset.Remaining != short.Focus {
		t.Fatalf("unexpected reset state: %+v", reset)
	}
}

func TestSubscribeStopsWithContext(t *testing.T) {
	t.Parallel()
	uc, _ := newTimer(t, &switchableIdentity{})
	ctx, cancel := context.WithCancel(context.Background())
	events := uc.Subscribe(ctx, 4)
	cancel()
	select {
	case _, ok := <-events:
		if ok {
			for range events {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscription did not close after cancel")
	}
}

func waitPersisted(t *testing.T, events <-chan timerdto.EventOutput, want int) {
	t.Helper()
	got := 0
	deadline := time.After(5 * time.Second)
	for got < want {
		select {
		case event := <-events:
			if event.Type == string(domain.EventPersistFailed) {
				t.Fatalf("unexpected persist failure: %s", event.Error)
			}
			if event.Type == string(domain.EventPersisted) {
				got++
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %d persisted events, got %d", want, got)
		}
	}
}

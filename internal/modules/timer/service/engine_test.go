package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"studyloop/internal/modules/timer/domain"
	"studyloop/internal/modules/timer/service"
	"studyloop/internal/platform/clock"
	"studyloop/internal/platform/logging"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

var durations = domain.Durations{Focus: 25 * time.Minute, Break: 5 * time.Minute, Tick: time.Second}

type memoryStore struct {
	mu       sync.Mutex
	sessions []domain.FocusSession
	err      error
	// gate, when set, holds every Append until a value is received.
	gate chan struct{}
}

func (m *memoryStore) Append(_ context.Context, session domain.FocusSession) (domain.FocusSession, error) {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.FocusSession{}, m.err
	}
	session.ID = "s" + string(rune('0'+len(m.sessions)+1))
	m.sessions = append(m.sessions, session)
	return session, nil
}

func (m *memoryStore) TotalCompletedSessions(_ context.Context, ownerID string, phase domain.Phase) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, s := range m.sessions {
		if s.OwnerID == ownerID && s.Phase == phase && s.Completed {
			count++
		}
	}
	return count, nil
}

func (m *memoryStore) TotalFocusDuration(_ context.Context, ownerID string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total time.Duration
	for _, s := range m.sessions {
		if s.OwnerID == ownerID && s.Phase == domain.PhaseFocus {
			total += s.Duration
		}
	}
	return total, nil
}

func (m *memoryStore) ListByOwner(_ context.Context, ownerID string) ([]domain.FocusSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FocusSession
	for _, s := range m.sessions {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) all() []domain.FocusSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.FocusSession(nil), m.sessions...)
}

type fixedIdentity string

func (f fixedIdentity) CurrentIdentity(context.Context) (string, bool) {
	return string(f), f != ""
}

func newEngine(store *memoryStore, identity fixedIdentity) (*service.Engine, *clock.FakeClock) {
	clk := clock.NewFake(t0)
	engine := service.NewEngine(clk, identity, store, logging.Nop(), service.Options{Durations: durations})
	return engine, clk
}

func TestInitialStateIsIdleFocus(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(&memoryStore{}, "")
	snap := engine.Snapshot()
	if snap.Status != domain.StatusIdle || snap.Phase != domain.PhaseFocus || snap.Remaining != durations.Focus {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
	if snap.Open != nil {
		t.Fatalf("no session should be open before start")
	}
}

func TestFullFocusPhasePersistsExactlyOneSession(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	engine, clk := newEngine(store, "user-1")

	engine.Start(context.Background())
	clk.Advance(durations.Focus)
	engine.Wait()

	sessions := store.all()
	if len(sessions) != 1 {
		t.Fatalf("expected one persisted session, got %d", len(sessions))
	}
	got := sessions[0]
	if !got.Completed || got.Duration != durations.Focus || got.Phase != domain.PhaseFocus {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.OwnerID != "user-1" || !got.StartTime.Equal(t0) {
		t.Fatalf("unexpected owner/start: %+v", got)
	}
	if got.EndTime == nil || !got.EndTime.Equal(t0.Add(durations.Focus)) {
		t.Fatalf("unexpected end time: %v", got.EndTime)
	}

	snap := engine.Snapshot()
	if snap.Phase != domain.PhaseBreak || snap.Remaining != durations.Break {
		t.Fatalf("expected break phase with full break duration, got %+v", snap)
	}
	if snap.Status != domain.StatusIdle || snap.Open != nil {
		t.Fatalf("next phase must wait for an explicit start: %+v", snap)
	}
	if clk.Pending() != 0 {
		t.Fatalf("countdown should be stopped after completion")
	}

	clk.Advance(time.Hour)
	engine.Wait()
	if len(store.all()) != 1 {
		t.Fatalf("no further session may be written without start")
	}
}

func TestBreakCompletionReturnsToFocus(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	engine, clk := newEngine(store, "")

	engine.Start(context.Background())
	clk.Advance(durations.Focus)
	engine.Start(context.Background())
	clk.Advance(durations.Break)
	engine.Wait()

	sessions := store.all()
	if len(sessions) != 2 {
		t.Fatalf("expected focus and break sessions, got %d", len(sessions))
	}
	if sessions[1].Phase != domain.PhaseBreak || sessions[1].Duration != durations.Break {
		t.Fatalf("unexpected break session: %+v", sessions[1])
	}
	if sessions[1].OwnerID != domain.AnonymousOwner {
		t.Fatalf("missing identity should map to anonymous, got %q", sessions[1].OwnerID)
	}
	if snap := engine.Snapshot(); snap.Phase != domain.PhaseFocus || snap.Remaining != durations.Focus {
		t.Fatalf("expected focus phase after break, got %+v", snap)
	}
}

func TestPauseThenStartResumesSameSession(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	engine, clk := newEngine(store, "user-1")

	engine.Start(context.Background())
	clk.Advance(5 * time.Second)
	paused := engine.Pause()
	if paused.Status != domain.StatusPaused || paused.Remaining != durations.Focus-5*time.Second {
		t.Fatalf("unexpected paused snapshot: %+v", paused)
	}

	clk.Advance(time.Minute)
	if snap := engine.Snapshot(); snap.Remaining != durations.Focus-5*time.Second {
		t.Fatalf("paused countdown must not move, got %v", snap.Remaining)
	}

	resumed := engine.Start(context.Background())
	if resumed.Open == nil || !resumed.Open.StartTime.Equal(t0) {
		t.Fatalf("resume must reuse the open session, got %+v", resumed.Open)
	}
	clk.Advance(durations.Focus - 5*time.Second)
	engine.Wait()

	sessions := store.all()
	if len(sessions) != 1 {
		t.Fatalf("expected a single session for the phase, got %d", len(sessions))
	}
	if !sessions[0].StartTime.Equal(t0) || sessions[0].Duration != durations.Focus {
		t.Fatalf("unexpected resumed session: %+v", sessions[0])
	}
}

func TestInvalidTransitionsAreNoOps(t *testing.T) {
	t.Parallel()
	engine, clk := newEngine(&memoryStore{}, "")

	if snap := engine.Pause(); snap.Status != domain.StatusIdle {
		t.Fatalf("pause while idle must be a no-op, got %+v", snap)
	}
	first := engine.Start(context.Background())
	clk.Advance(3 * time.Second)
	second := engine.Start(context.Background())
	if second.Open == nil || !second.Open.StartTime.Equal(first.Open.StartTime) {
		t.Fatalf("double start must not replace the session")
	}
	if clk.Pending() != 1 {
		t.Fatalf("double start must not schedule a second countdown, got %d", clk.Pending())
	}
	clk.Advance(2 * time.Second)
	if snap := engine.Snapshot(); snap.Remaining != durations.Focus-5*time.Second {
		t.Fatalf("expected a single tick per interval, remaining %v", snap.Remaining)
	}
}

func TestResetDiscardsOpenSessionFromAnyState(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	engine, clk := newEngine(store, "user-1")

	check := func(label string, snap domain.Snapshot) {
		t.Helper()
		if snap.Status != domain.StatusIdle || snap.Phase != domain.PhaseFocus || snap.Remaining != durations.Focus || snap.Open != nil {
			t.Fatalf("%s: unexpected reset snapshot %+v", label, snap)
		}
	}

	check("idle", engine.Reset())

	engine.Start(context.Background())
	clk.Advance(10 * time.Second)
	check("running", engine.Reset())

	engine.Start(context.Background())
	clk.Advance(10 * time.Second)
	engine.Pause()
	check("paused", engine.Reset())

	engine.Start(context.Background())
	clk.Advance(durations.Focus)
	check("break", engine.Reset())

	clk.Advance(time.Hour)
	engine.Wait()
	if got := len(store.all()); got != 1 {
		t.Fatalf("only the completed phase may be persisted, got %d", got)
	}
	if clk.Pending() != 0 {
		t.Fatalf("reset must stop the countdown")
	}
}

func TestPersistFailureIsLoggedAndDoesNotBlockNextPhase(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	store := &memoryStore{err: errors.New("disk full")}
	clk := clock.NewFake(t0)
	engine := service.NewEngine(clk, fixedIdentity("user-1"), store, logging.NewZapLogger(zap.New(core).Sugar()), service.Options{Durations: durations})
	events := engine.Subscribe(4096)

	engine.Start(context.Background())
	clk.Advance(durations.Focus)
	engine.Wait()

	if snap := engine.Snapshot(); snap.Phase != domain.PhaseBreak {
		t.Fatalf("failure must not roll back the phase flip, got %+v", snap)
	}
	if snap := engine.Start(context.Background()); snap.Status != domain.StatusRunning {
		t.Fatalf("next phase must start after a failed write, got %+v", snap)
	}

	var failed *domain.Event
	for len(events) > 0 {
		event := <-events
		if event.Type == domain.EventPersistFailed {
			failed = &event
		}
	}
	if failed == nil || failed.Err == nil || failed.Session == nil || !failed.Session.Completed {
		t.Fatalf("expected persist failure event with the attempted session, got %+v", failed)
	}

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "disk full") {
		t.Fatalf("expected one error log mentioning the failure, got %+v", entries)
	}
	if entries[0].ContextMap()["owner"] != "user-1" {
		t.Fatalf("error log should carry the owner field: %v", entries[0].ContextMap())
	}
	engine.Close()
}

func TestSubscribersSeeTicksCompletionAndPersistResult(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	clk := clock.NewFake(t0)
	short := domain.Durations{Focus: 3 * time.Second, Break: 2 * time.Second, Tick: time.Second}
	engine := service.NewEngine(clk, fixedIdentity("user-1"), store, nil, service.Options{Durations: short})
	events := engine.Subscribe(32)

	engine.Start(context.Background())
	clk.Advance(3 * time.Second)
	engine.Close()

	var types []domain.EventType
	var persisted *domain.FocusSession
	for event := range events {
		types = append(types, event.Type)
		if event.Type == domain.EventPersisted {
			persisted = event.Session
		}
	}
	want := []domain.EventType{
		domain.EventStateChange,
		domain.EventTick,
		domain.EventTick,
		domain.EventPhaseCompleted,
		domain.EventPersisted,
	}
	if len(types) != len(want) {
		t.Fatalf("unexpected event sequence: %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event %d: want %s got %s (%v)", i, want[i], types[i], types)
		}
	}
	if persisted == nil || persisted.ID == "" {
		t.Fatalf("persisted event should carry the stored session with its id")
	}
	if snap := engine.Start(context.Background()); snap.Status != domain.StatusIdle {
		t.Fatalf("closed engine must ignore start, got %+v", snap)
	}
}

func TestWaitCoversWritesDispatchedWhileWaiting(t *testing.T) {
	t.Parallel()
	store := &memoryStore{gate: make(chan struct{})}
	engine, clk := newEngine(store, "ada")

	engine.Start(context.Background())
	clk.Advance(durations.Focus)

	waited := make(chan struct{})
	go func() {
		engine.Wait()
		close(waited)
	}()

	// The break completes while Wait is blocked on the focus write.
	engine.Start(context.Background())
	clk.Advance(durations.Break)

	select {
	case <-waited:
		t.Fatalf("Wait returned with writes still pending")
	case <-time.After(20 * time.Millisecond):
	}

	store.gate <- struct{}{}
	select {
	case <-waited:
		t.Fatalf("Wait returned before the second write finished")
	case <-time.After(20 * time.Millisecond):
	}
	store.gate <- struct{}{}

	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatalf("Wait did not return after every write finished")
	}
	if got := len(store.all()); got != 2 {
		t.Fatalf("expected both phases persisted, got %d", got)
	}
	engine.Close()
}

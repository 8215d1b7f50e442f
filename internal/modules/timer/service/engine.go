package service

import (
	"context"
	"sync"
	"time"

	"studyloop/internal/modules/timer/domain"
	timerout "studyloop/internal/modules/timer/port/out"
	"studyloop/internal/platform/clock"
	"studyloop/internal/platform/logging"
)

// Engine is the focus/break state machine. All state is guarded by mu;
// every scheduled tick carries the generation it was started with so a
// tick that lost the race with Pause or Reset is discarded.
type Engine struct {
	mu             sync.Mutex
	clock          clock.Clock
	identity       timerout.IdentityProvider
	store          timerout.SessionStore
	logger         logging.Logger
	durations      domain.Durations
	persistTimeout time.Duration

	status     domain.Status
	phase      domain.Phase
	remaining  time.Duration
	open       *domain.FocusSession
	ticker     clock.Handle
	generation uint64

	// pending counts dispatched session writes; drained is signalled on mu
	// when it drops to zero.
	pending int
	drained *sync.Cond
	events  []chan domain.Event
	closed  bool
}

type Options struct {
	Durations      domain.Durations
	PersistTimeout time.Duration
}

func NewEngine(clk clock.Clock, identity timerout.IdentityProvider, store timerout.SessionStore, logger logging.Logger, options Options) *Engine {
	if options.Durations.Tick <= 0 {
		options.Durations.Tick = time.Second
	}
	if options.PersistTimeout <= 0 {
		options.PersistTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Nop()
	}
	e := &Engine{
		clock:          clk,
		identity:       identity,
		store:          store,
		logger:         logger,
		durations:      options.Durations,
		persistTimeout: options.PersistTimeout,
		status:         domain.StatusIdle,
		phase:          domain.PhaseFocus,
		remaining:      options.Durations.Focus,
	}
	e.drained = sync.NewCond(&e.mu)
	return e
}

// Subscribe registers an observer. Delivery never blocks the engine: events
// that do not fit in the buffer are dropped.
func (e *Engine) Subscribe(buffer int) <-chan domain.Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan domain.Event, buffer)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch
	}
	e.events = append(e.events, ch)
	return ch
}

func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Start begins or resumes the countdown of the current phase. It is a no-op
// while already running.
func (e *Engine) Start(ctx context.Context) domain.Snapshot {
	owner := e.resolveOwner(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.status == domain.StatusRunning {
		return e.snapshotLocked()
	}
	if e.open == nil {
		e.open = &domain.FocusSession{
			OwnerID:   owner,
			StartTime: e.clock.Now(),
			Phase:     e.phase,
		}
	}
	e.status = domain.StatusRunning
	e.generation++
	generation := e.generation
	e.ticker = e.clock.ScheduleTick(e.durations.Tick, func() { e.tick(generation) })

	snapshot := e.snapshotLocked()
	e.emitLocked(domain.Event{Type: domain.EventStateChange, Snapshot: snapshot, At: e.clock.Now()})
	return snapshot
}

// Pause halts a running countdown and keeps the remaining time.
func (e *Engine) Pause() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != domain.StatusRunning {
		return e.snapshotLocked()
	}
	e.stopTickerLocked()
	e.status = domain.StatusPaused

	snapshot := e.snapshotLocked()
	e.emitLocked(domain.Event{Type: domain.EventStateChange, Snapshot: snapshot, At: e.clock.Now()})
	return snapshot
}

// Reset drops any open session without persisting it and returns to an idle
// focus phase.
func (e *Engine) Reset() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTickerLocked()
	e.status = domain.StatusIdle
	e.phase = domain.PhaseFocus
	e.remaining = e.durations.Focus
	e.open = nil

	snapshot := e.snapshotLocked()
	e.emitLocked(domain.Event{Type: domain.EventStateChange, Snapshot: snapshot, At: e.clock.Now()})
	return snapshot
}

// Wait blocks until every dispatched session write has finished, including
// writes dispatched by phases that complete while it waits.
func (e *Engine) Wait() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.waitLocked()
}

func (e *Engine) waitLocked() {
	for e.pending > 0 {
		e.drained.Wait()
	}
}

// Close stops the countdown, waits for pending writes and closes observers.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.stopTickerLocked()
	e.closed = true
	e.waitLocked()
	events := e.events
	e.events = nil
	e.mu.Unlock()
	for _, ch := range events {
		close(ch)
	}
}

func (e *Engine) tick(generation uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != domain.StatusRunning || generation != e.generation {
		return
	}

	e.remaining -= e.durations.Tick
	if e.remaining > 0 {
		e.emitLocked(domain.Event{Type: domain.EventTick, Snapshot: e.snapshotLocked(), At: e.clock.Now()})
		return
	}
	e.completeLocked()
}

func (e *Engine) completeLocked() {
	now := e.clock.Now()
	finished := e.phase
	e.stopTickerLocked()

	if e.open != nil {
		session := e.open.Complete(now, e.durations.For(finished))
		e.pending++
		go e.persist(session)
	}

	e.open = nil
	e.phase = finished.Next()
	e.remaining = e.durations.For(e.phase)
	e.status = domain.StatusIdle

	e.emitLocked(domain.Event{Type: domain.EventPhaseCompleted, Snapshot: e.snapshotLocked(), At: now})
}

func (e *Engine) persist(session domain.FocusSession) {
	defer e.persistDone()

	ctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
	defer cancel()

	log := e.logger.With("owner", session.OwnerID, "phase", string(session.Phase))
	stored, err := e.store.Append(ctx, session)
	if err != nil {
		log.Errorf("persist completed session: %v", err)
		e.emit(domain.Event{Type: domain.EventPersistFailed, Session: &session, Err: err, At: e.clock.Now()})
		return
	}
	log.Debugf("persisted session %s (%s)", stored.ID, stored.Duration)
	e.emit(domain.Event{Type: domain.EventPersisted, Session: &stored, At: e.clock.Now()})
}

func (e *Engine) persistDone() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending--
	if e.pending == 0 {
		e.drained.Broadcast()
	}
}

func (e *Engine) resolveOwner(ctx context.Context) string {
	if e.identity == nil {
		return domain.AnonymousOwner
	}
	owner, ok := e.identity.CurrentIdentity(ctx)
	if !ok || owner == "" {
		return domain.AnonymousOwner
	}
	return owner
}

func (e *Engine) stopTickerLocked() {
	if e.ticker != nil {
		e.ticker.Cancel()
		e.ticker = nil
	}
	e.generation++
}

func (e *Engine) snapshotLocked() domain.Snapshot {
	snapshot := domain.Snapshot{
		Status:      e.status,
		Phase:       e.phase,
		PhaseLength: e.durations.For(e.phase),
		Remaining:   e.remaining,
	}
	if e.open != nil {
		open := *e.open
		snapshot.Open = &open
	}
	return snapshot
}

// emit stamps event with the current snapshot before fan-out.
func (e *Engine) emit(event domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	event.Snapshot = e.snapshotLocked()
	e.emitLocked(event)
}

func (e *Engine) emitLocked(event domain.Event) {
	for _, ch := range e.events {
		select {
		case ch <- event:
		default:
		}
	}
}

package domain

import "time"

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// Durations holds the configured phase lengths and tick cadence.
type Durations struct {
	Focus time.Duration
	Break time.Duration
	Tick  time.Duration
}

func (d Durations) For(phase Phase) time.Duration {
	if phase == PhaseBreak {
		return d.Break
	}
	return d.Focus
}

type Snapshot struct {
	Status      Status
	Phase       Phase
	PhaseLength time.Duration
	Remaining   time.Duration
	Open        *FocusSession
}

type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventTick           EventType = "tick"
	EventPhaseCompleted EventType = "phase_completed"
	EventPersisted      EventType = "persisted"
	EventPersistFailed  EventType = "persist_failed"
)

// Event is delivered to subscribers. For persistence events Session is the
// stored (or attempted) session and Err carries the failure, if any.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Session  *FocusSession
	Err      error
	At       time.Time
}

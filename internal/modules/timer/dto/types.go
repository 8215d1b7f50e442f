package dto

import "time"

type StateOutput struct {
	Status       string
	Phase        string
	PhaseLength  time.Duration
	Remaining    time.Duration
	SessionOpen  bool
	SessionOwner string
	SessionStart time.Time
}

type EventOutput struct {
	Type    string
	State   StateOutput
	Session *SessionOutput
	Error   string
	At      time.Time
}

type SessionOutput struct {
	ID        string
	OwnerID   string
	Phase     string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Completed bool
}

type StatsInput struct {
	OwnerID string
}

type StatsOutput struct {
	OwnerID                string
	CompletedFocusSessions int
	CompletedBreakSessions int
	TotalFocus             time.Duration
}

type HistoryInput struct {
	OwnerID string
	Limit   int
}

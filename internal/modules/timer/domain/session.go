package domain

import (
	"fmt"
	"time"

	apperrors "studyloop/internal/platform/errors"
)

const SchemaVersion = 1

// AnonymousOwner stamps sessions started without a signed-in identity.
const AnonymousOwner = "anonymous"

type Phase string

const (
	PhaseFocus Phase = "FOCUS"
	PhaseBreak Phase = "BREAK"
)

func (p Phase) Validate() error {
	switch p {
	case PhaseFocus, PhaseBreak:
		return nil
	default:
		return fmt.Errorf("%w: unknown phase %q", apperrors.ErrInvalidInput, string(p))
	}
}

// Next returns the phase that follows p in the focus/break cycle.
func (p Phase) Next() Phase {
	if p == PhaseFocus {
		return PhaseBreak
	}
	return PhaseFocus
}

type FocusSession struct {
	ID        string
	OwnerID   string
	StartTime time.Time
	EndTime   *time.Time
	Duration  time.Duration
	Phase     Phase
	Completed bool
}

// Open reports whether the session is still running.
func (s FocusSession) Open() bool {
	return s.EndTime == nil
}

// Complete closes the session at endedAt with the configured phase length.
func (s FocusSession) Complete(endedAt time.Time, phaseLength time.Duration) FocusSession {
	end := endedAt
	s.EndTime = &end
	s.Duration = phaseLength
	s.Completed = true
	return s
}

package out

import (
	"context"
	"time"

	"studyloop/internal/modules/timer/domain"
)

// SessionStore is the durable append-only log of completed sessions.
type SessionStore interface {
	Append(ctx context.Context, session domain.FocusSession) (domain.FocusSession, error)
	TotalCompletedSessions(ctx context.Context, ownerID string, phase domain.Phase) (int, error)
	TotalFocusDuration(ctx context.Context, ownerID string) (time.Duration, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.FocusSession, error)
}

type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (string, bool)
}

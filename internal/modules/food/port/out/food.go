package out

import (
	"context"

	"studyloop/internal/modules/food/domain"
)

type ProgressSource interface {
	CurrentProgress(ctx context.Context, ownerID string) (domain.ProgressSnapshot, error)
}

type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (string, bool)
}

package out

import (
	"context"
	"errors"
	"fmt"

	"studyloop/internal/modules/food/domain"
	foodout "studyloop/internal/modules/food/port/out"
	profilein "studyloop/internal/modules/profile/port/in"
	timerdto "studyloop/internal/modules/timer/dto"
	timerin "studyloop/internal/modules/timer/port/in"
	apperrors "studyloop/internal/platform/errors"
)

// ProgressAdapter combines completed focus sessions from the timer with
// completed lessons from the profile.
type ProgressAdapter struct {
	timer   timerin.Usecase
	profile profilein.Usecase
}

func NewProgressAdapter(timer timerin.Usecase, profile profilein.Usecase) foodout.ProgressSource {
	return &ProgressAdapter{timer: timer, profile: profile}
}

func (a *ProgressAdapter) CurrentProgress(ctx context.Context, ownerID string) (domain.ProgressSnapshot, error) {
	stats, err := a.timer.Stats(ctx, timerdto.StatsInput{OwnerID: ownerID})
	if err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("focus stats: %w", err)
	}
	snapshot := domain.ProgressSnapshot{CompletedFocusSessions: stats.CompletedFocusSessions}

	profile, err := a.profile.GetProfile(ctx, ownerID)
	switch {
	case err == nil:
		snapshot.CompletedLessons = len(profile.CompletedLessons)
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return domain.ProgressSnapshot{}, fmt.Errorf("profile lessons: %w", err)
	}
	return snapshot, nil
}

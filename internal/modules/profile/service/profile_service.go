package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studyloop/internal/modules/profile/domain"
	profileout "studyloop/internal/modules/profile/port/out"
	"studyloop/internal/platform/clock"
	apperrors "studyloop/internal/platform/errors"
)

type ProfileService struct {
	clock   clock.Clock
	store   profileout.ProfileStore
	lessons profileout.LessonCatalog
}

func NewProfileService(clock clock.Clock, store profileout.ProfileStore, lessons profileout.LessonCatalog) *ProfileService {
	return &ProfileService{clock: clock, store: store, lessons: lessons}
}

// Upsert creates the profile on first sign-in and refreshes name and email
// when they are provided later.
func (s *ProfileService) Upsert(ctx context.Context, userID, name, email string) (domain.Profile, string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Profile{}, "", fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	now := s.clock.Now()
	profile, err := s.store.FindByID(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		profile = domain.Profile{ID: userID, Name: userID, CreatedAt: now}
	case err != nil:
		return domain.Profile{}, "", err
	}
	if name = strings.TrimSpace(name); name != "" {
		profile.Name = name
	}
	if email = strings.TrimSpace(email); email != "" {
		profile.Email = email
	}
	profile.UpdatedAt = now
	if err := profile.Validate(); err != nil {
		return domain.Profile{}, "", err
	}
	path, err := s.store.Save(ctx, profile)
	if err != nil {
		return domain.Profile{}, "", err
	}
	return profile, path, nil
}

func (s *ProfileService) Get(ctx context.Context, userID string) (domain.Profile, error) {
	return s.store.FindByID(ctx, userID)
}

// CompleteLesson only accepts lessons the catalog knows about.
func (s *ProfileService) CompleteLesson(ctx context.Context, userID, lessonID string) (domain.Profile, bool, error) {
	lessonID = strings.TrimSpace(lessonID)
	if lessonID == "" {
		return domain.Profile{}, false, fmt.Errorf("%w: lesson id is required", apperrors.ErrInvalidInput)
	}
	known, err := s.lessons.HasLesson(ctx, lessonID)
	if err != nil {
		return domain.Profile{}, false, err
	}
	if !known {
		return domain.Profile{}, false, fmt.Errorf("%w: unknown lesson %q", apperrors.ErrInvalidInput, lessonID)
	}
	profile, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, false, err
	}
	if !profile.CompleteLesson(lessonID, s.clock.Now()) {
		return profile, false, nil
	}
	if _, err := s.store.Save(ctx, profile); err != nil {
		return domain.Profile{}, false, err
	}
	return profile, true, nil
}

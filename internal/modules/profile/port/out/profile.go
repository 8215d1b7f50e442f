package out

import (
	"context"

	"studyloop/internal/modules/profile/domain"
)

type ProfileStore interface {
	Save(ctx context.Context, profile domain.Profile) (string, error)
	FindByID(ctx context.Context, id string) (domain.Profile, error)
}

type ActiveIdentityStore interface {
	SaveActive(ctx context.Context, identity domain.ActiveIdentity) error
	LoadActive(ctx context.Context) (domain.ActiveIdentity, error)
	ClearActive(ctx context.Context) error
}

// LessonCatalog reports whether a lesson id exists in the course catalog.
type LessonCatalog interface {
	HasLesson(ctx context.Context, lessonID string) (bool, error)
}

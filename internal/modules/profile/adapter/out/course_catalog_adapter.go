package out

import (
	"context"
	"errors"

	coursein "studyloop/internal/modules/course/port/in"
	profileout "studyloop/internal/modules/profile/port/out"
	apperrors "studyloop/internal/platform/errors"
)

type CourseCatalogAdapter struct {
	courses coursein.Usecase
}

func NewCourseCatalogAdapter(courses coursein.Usecase) profileout.LessonCatalog {
	return &CourseCatalogAdapter{courses: courses}
}

func (a *CourseCatalogAdapter) HasLesson(ctx context.Context, lessonID string) (bool, error) {
	_, err := a.courses.FindLesson(ctx, lessonID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

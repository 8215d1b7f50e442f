package in

import (
	"context"
	"errors"

	coursedto "studyloop/internal/modules/course/dto"
	coursein "studyloop/internal/modules/course/port/in"
	profilein "studyloop/internal/modules/profile/port/in"
	apperrors "studyloop/internal/platform/errors"
)

// CLIHandler marks lessons completed by the signed-in profile. Anonymous
// users see the catalog without progress.
type CLIHandler struct {
	usecase coursein.Usecase
	profile profilein.Usecase
}

func NewCLIHandler(usecase coursein.Usecase, profile profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase, profile: profile}
}

func (h CLIHandler) List(ctx context.Context) ([]coursedto.CourseOutput, error) {
	completed, err := h.completedLessons(ctx)
	if err != nil {
		return nil, err
	}
	return h.usecase.ListCourses(ctx, coursedto.ListCoursesInput{CompletedLessons: completed})
}

func (h CLIHandler) Lessons(ctx context.Context, courseID string) (coursedto.LessonsOutput, error) {
	completed, err := h.completedLessons(ctx)
	if err != nil {
		return coursedto.LessonsOutput{}, err
	}
	return h.usecase.Lessons(ctx, coursedto.LessonsInput{CourseID: courseID, CompletedLessons: completed})
}

func (h CLIHandler) completedLessons(ctx context.Context) ([]string, error) {
	current, err := h.profile.Current(ctx)
	if errors.Is(err, apperrors.ErrNoIdentity) || errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return current.CompletedLessons, nil
}

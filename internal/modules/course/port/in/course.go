package in

import (
	"context"

	"studyloop/internal/modules/course/dto"
)

type Usecase interface {
	EnsureCatalog(ctx context.Context) (dto.SeedOutput, error)
	ListCourses(ctx context.Context, input dto.ListCoursesInput) ([]dto.CourseOutput, error)
	Lessons(ctx context.Context, input dto.LessonsInput) (dto.LessonsOutput, error)
	FindLesson(ctx context.Context, lessonID string) (dto.LessonOutput, error)
}

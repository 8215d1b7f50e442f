package out

import (
	"context"

	"studyloop/internal/modules/course/domain"
)

type CourseStore interface {
	Save(ctx context.Context, course domain.Course) (string, error)
	List(ctx context.Context) ([]domain.Course, error)
}

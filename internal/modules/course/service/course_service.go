package service

import (
	"context"
	"fmt"

	"studyloop/internal/modules/course/domain"
	courseout "studyloop/internal/modules/course/port/out"
)

type CourseService struct {
	store courseout.CourseStore
}

func NewCourseService(store courseout.CourseStore) *CourseService {
	return &CourseService{store: store}
}

// Catalog loads every stored course. Duplicate course or lesson ids across
// notes are reported as invalid input.
func (s *CourseService) Catalog(ctx context.Context) (domain.Catalog, error) {
	courses, err := s.store.List(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	catalog, err := domain.NewCatalog(courses...)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load course catalog: %w", err)
	}
	return catalog, nil
}

// Seed writes courses only when the store holds none yet.
func (s *CourseService) Seed(ctx context.Context, courses []domain.Course) ([]string, error) {
	existing, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, nil
	}
	if _, err := domain.NewCatalog(courses...); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(courses))
	for _, course := range courses {
		path, err := s.store.Save(ctx, course)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

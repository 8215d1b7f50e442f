package usecase

import (
	"context"
	"fmt"
	"strings"

	"studyloop/internal/modules/course/domain"
	coursedto "studyloop/internal/modules/course/dto"
	coursein "studyloop/internal/modules/course/port/in"
	"studyloop/internal/modules/course/service"
	apperrors "studyloop/internal/platform/errors"
)

type Interactor struct {
	svc      *service.CourseService
	defaults []domain.Course
}

func NewInteractor(svc *service.CourseService, defaults []domain.Course) coursein.Usecase {
	return &Interactor{svc: svc, defaults: defaults}
}

func (i *Interactor) EnsureCatalog(ctx context.Context) (coursedto.SeedOutput, error) {
	paths, err := i.svc.Seed(ctx, i.defaults)
	if err != nil {
		return coursedto.SeedOutput{}, err
	}
	return coursedto.SeedOutput{Seeded: len(paths), Paths: paths}, nil
}

func (i *Interactor) ListCourses(ctx context.Context, input coursedto.ListCoursesInput) ([]coursedto.CourseOutput, error) {
	catalog, err := i.svc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	completed := toSet(input.CompletedLessons)
	courses := catalog.Courses()
	out := make([]coursedto.CourseOutput, 0, len(courses))
	for _, course := range courses {
		out = append(out, toCourseOutput(course, completed))
	}
	return out, nil
}

func (i *Interactor) Lessons(ctx context.Context, input coursedto.LessonsInput) (coursedto.LessonsOutput, error) {
	courseID := strings.TrimSpace(input.CourseID)
	if courseID == "" {
		return coursedto.LessonsOutput{}, fmt.Errorf("%w: course id is required", apperrors.ErrInvalidInput)
	}
	catalog, err := i.svc.Catalog(ctx)
	if err != nil {
		return coursedto.LessonsOutput{}, err
	}
	course, err := catalog.Course(courseID)
	if err != nil {
		return coursedto.LessonsOutput{}, err
	}
	completed := toSet(input.CompletedLessons)
	out := coursedto.LessonsOutput{
		Course:  toCourseOutput(course, completed),
		Lessons: make([]coursedto.LessonOutput, 0, len(course.Lessons)),
	}
	for _, lesson := range course.Lessons {
		item := toLessonOutput(lesson)
		item.Completed = completed[lesson.ID]
		out.Lessons = append(out.Lessons, item)
	}
	return out, nil
}

func (i *Interactor) FindLesson(ctx context.Context, lessonID string) (coursedto.LessonOutput, error) {
	lessonID = strings.TrimSpace(lessonID)
	if lessonID == "" {
		return coursedto.LessonOutput{}, fmt.Errorf("%w: lesson id is required", apperrors.ErrInvalidInput)
	}
	catalog, err := i.svc.Catalog(ctx)
	if err != nil {
		return coursedto.LessonOutput{}, err
	}
	lesson, err := catalog.Lesson(lessonID)
	if err != nil {
		return coursedto.LessonOutput{}, err
	}
	return toLessonOutput(lesson), nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func toCourseOutput(course domain.Course, completed map[string]bool) coursedto.CourseOutput {
	done, percent := course.Progress(completed)
	return coursedto.CourseOutput{
		ID:               course.ID,
		Title:            course.Title,
		Description:      course.Description,
		Instructor:       course.Instructor,
		TotalLessons:     len(course.Lessons),
		CompletedLessons: done,
		ProgressPercent:  percent,
		TotalMinutes:     course.TotalMinutes(),
		NotePath:         course.NotePath,
	}
}

func toLessonOutput(lesson domain.Lesson) coursedto.LessonOutput {
	return coursedto.LessonOutput{
		ID:              lesson.ID,
		CourseID:        lesson.CourseID,
		Title:           lesson.Title,
		Content:         lesson.Content,
		VideoURL:        lesson.VideoURL,
		DurationMinutes: lesson.DurationMinutes,
		Order:           lesson.Order,
	}
}

package usecase_test

import (
	"context"
	"errors"
	"testing"

	courseout "studyloop/internal/modules/course/adapter/out"
	"studyloop/internal/modules/course/domain"
	coursedto "studyloop/internal/modules/course/dto"
	coursein "studyloop/internal/modules/course/port/in"
	"studyloop/internal/modules/course/service"
	"studyloop/internal/modules/course/usecase"
	apperrors "studyloop/internal/platform/errors"
)

func newUsecase(t *testing.T) coursein.Usecase {
	t.Helper()
	store := courseout.NewVaultCourseStore(t.TempDir())
	return usecase.NewInteractor(service.NewCourseService(store), domain.DefaultCourses())
}

func TestEnsureCatalogSeedsOnce(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()

	first, err := uc.EnsureCatalog(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if first.Seeded != 2 || len(first.Paths) != 2 {
		t.Fatalf("expected two seeded courses, got %+v", first)
	}
	second, err := uc.EnsureCatalog(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second.Seeded != 0 {
		t.Fatalf("existing catalog must not be reseeded, got %+v", second)
	}
}

func TestLessonsAreOrderedWithProgress(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()
	if _, err := uc.EnsureCatalog(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := uc.Lessons(ctx, coursedto.LessonsInput{CourseID: "go-basics", CompletedLessons: []string{"go-102"}})
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	if len(out.Lessons) != 3 {
		t.Fatalf("expected 3 lessons, got %d", len(out.Lessons))
	}
	for i, lesson := range out.Lessons {
		if lesson.Order != i+1 {
			t.Fatalf("lesson %d has order %d", i, lesson.Order)
		}
	}
	if !out.Lessons[1].Completed || out.Lessons[0].Completed {
		t.Fatalf("completion flags wrong: %+v", out.Lessons)
	}
	if out.Course.CompletedLessons != 1 || out.Course.ProgressPercent != 33 || out.Course.TotalMinutes != 60 {
		t.Fatalf("unexpected course progress: %+v", out.Course)
	}

	if _, err := uc.Lessons(ctx, coursedto.LessonsInput{CourseID: "missing"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown course should be not found, got %v", err)
	}
	if _, err := uc.Lessons(ctx, coursedto.LessonsInput{CourseID: " "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank course should be invalid input, got %v", err)
	}
}

func TestListCoursesAndFindLesson(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t)
	ctx := context.Background()

	empty, err := uc.ListCourses(ctx, coursedto.ListCoursesInput{})
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty catalog before seeding, got %v %v", empty, err)
	}
	if _, err := uc.EnsureCatalog(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	courses, err := uc.ListCourses(ctx, coursedto.ListCoursesInput{CompletedLessons: []string{"study-101", "study-102", "study-103"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(courses) != 2 || courses[1].ID != "study-skills" || courses[1].ProgressPercent != 100 || courses[0].ProgressPercent != 0 {
		t.Fatalf("unexpected courses: %+v", courses)
	}

	lesson, err := uc.FindLesson(ctx, "go-103")
	if err != nil || lesson.CourseID != "go-basics" || lesson.Title != "Control Structures" {
		t.Fatalf("unexpected lesson: %+v %v", lesson, err)
	}
	if _, err := uc.FindLesson(ctx, "go-999"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown lesson should be not found, got %v", err)
	}
}

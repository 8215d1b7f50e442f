package out_test

import (
	"context"
	"testing"

	courseoutadapter "studyloop/internal/modules/course/adapter/out"
	coursedomain "studyloop/internal/modules/course/domain"
	courseservice "studyloop/internal/modules/course/service"
	courseusecase "studyloop/internal/modules/course/usecase"
	profileout "studyloop/internal/modules/profile/adapter/out"
)

func TestCourseCatalogAdapterKnowsSeededLessons(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	courses := courseusecase.NewInteractor(
		courseservice.NewCourseService(courseoutadapter.NewVaultCourseStore(t.TempDir())),
		coursedomain.DefaultCourses(),
	)
	catalog := profileout.NewCourseCatalogAdapter(courses)

	if known, err := catalog.HasLesson(ctx, "go-101"); err != nil || known {
		t.Fatalf("empty catalog should know no lessons, got %v %v", known, err)
	}
	if _, err := courses.EnsureCatalog(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if known, err := catalog.HasLesson(ctx, "go-101"); err != nil || !known {
		t.Fatalf("go-101 should be known, got %v %v", known, err)
	}
	if known, err := catalog.HasLesson(ctx, "go-404"); err != nil || known {
		t.Fatalf("go-404 should be unknown, got %v %v", known, err)
	}
}

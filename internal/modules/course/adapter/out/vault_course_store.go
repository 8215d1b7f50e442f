package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"studyloop/internal/modules/course/domain"
	courseout "studyloop/internal/modules/course/port/out"
	apperrors "studyloop/internal/platform/errors"
	"studyloop/internal/platform/markdown"
	"studyloop/internal/platform/slug"
)

// VaultCourseStore keeps one markdown note per course under <root>/courses.
// Course fields and the lesson list live in the frontmatter; the body is
// free-form and survives rewrites.
type VaultCourseStore struct {
	root string
}

var _ courseout.CourseStore = (*VaultCourseStore)(nil)

func NewVaultCourseStore(root string) *VaultCourseStore {
	return &VaultCourseStore{root: root}
}

func (s *VaultCourseStore) Save(_ context.Context, course domain.Course) (string, error) {
	if err := course.Validate(); err != nil {
		return "", err
	}
	path := filepath.Join(s.root, "courses", slug.Make(course.ID)+".md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", apperrors.NewStoreError("create course dir", err)
	}

	body := ""
	if existing, err := os.ReadFile(path); err == nil {
		var discard courseNote
		if existingBody, decodeErr := markdown.DecodeNote(string(existing), &discard); decodeErr == nil {
			body = existingBody
		}
	}
	if strings.TrimSpace(body) == "" {
		body = overview(course)
	}

	rendered, err := markdown.RenderNote(toNote(course), body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", apperrors.NewStoreError("write course note", err)
	}
	return path, nil
}

func (s *VaultCourseStore) List(_ context.Context) ([]domain.Course, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, "courses", "*.md"))
	if err != nil {
		return nil, apperrors.NewStoreError("glob course notes", err)
	}
	sort.Strings(matches)

	out := make([]domain.Course, 0, len(matches))
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewStoreError("read course note", err)
		}
		var note courseNote
		if _, err := markdown.DecodeNote(string(content), &note); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		course := note.toCourse(path)
		if err := course.Validate(); err != nil {
			return nil, fmt.Errorf("decode course %s: %w", path, err)
		}
		out = append(out, course)
	}
	return out, nil
}

type courseNote struct {
	SchemaVersion int          `yaml:"schema_version"`
	ID            string       `yaml:"id"`
	Title         string       `yaml:"title"`
	Description   string       `yaml:"description,omitempty"`
	Instructor    string       `yaml:"instructor,omitempty"`
	Lessons       []lessonNote `yaml:"lessons"`
}

type lessonNote struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Order           int    `yaml:"order"`
	DurationMinutes int    `yaml:"duration_minutes"`
	VideoURL        string `yaml:"video_url,omitempty"`
	Content         string `yaml:"content,omitempty"`
}

func toNote(course domain.Course) courseNote {
	note := courseNote{
		SchemaVersion: domain.SchemaVersion,
		ID:            course.ID,
		Title:         course.Title,
		Description:   course.Description,
		Instructor:    course.Instructor,
		Lessons:       make([]lessonNote, 0, len(course.Lessons)),
	}
	for _, lesson := range course.Lessons {
		note.Lessons = append(note.Lessons, lessonNote{
			ID:              lesson.ID,
			Title:           lesson.Title,
			Order:           lesson.Order,
			DurationMinutes: lesson.DurationMinutes,
			VideoURL:        lesson.VideoURL,
			Content:         lesson.Content,
		})
	}
	return note
}

func (n courseNote) toCourse(path string) domain.Course {
	course := domain.Course{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Instructor:  n.Instructor,
		NotePath:    path,
		Lessons:     make([]domain.Lesson, 0, len(n.Lessons)),
	}
	for _, lesson := range n.Lessons {
		course.Lessons = append(course.Lessons, domain.Lesson{
			ID:              lesson.ID,
			CourseID:        n.ID,
			Title:           lesson.Title,
			Content:         lesson.Content,
			VideoURL:        lesson.VideoURL,
			DurationMinutes: lesson.DurationMinutes,
			Order:           lesson.Order,
		})
	}
	return course
}

func overview(course domain.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", course.Title)
	if course.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", course.Description)
	}
	b.WriteString("## Lessons\n\n")
	for _, lesson := range course.Lessons {
		fmt.Fprintf(&b, "%d. %s (%d min)\n", lesson.Order, lesson.Title, lesson.DurationMinutes)
	}
	b.WriteString("\n## Notes\n")
	return b.String()
}

package domain

import (
	"fmt"
	"sort"
	"strings"

	apperrors "studyloop/internal/platform/errors"
)

const SchemaVersion = 1

type Lesson struct {
	ID              string
	CourseID        string
	Title           string
	Content         string
	VideoURL        string
	DurationMinutes int
	Order           int
}

func (l Lesson) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("%w: lesson id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("%w: lesson %s: title is required", apperrors.ErrInvalidInput, l.ID)
	}
	if l.Order < 1 {
		return fmt.Errorf("%w: lesson %s: order must be at least 1", apperrors.ErrInvalidInput, l.ID)
	}
	if l.DurationMinutes < 0 {
		return fmt.Errorf("%w: lesson %s: negative duration", apperrors.ErrInvalidInput, l.ID)
	}
	return nil
}

type Course struct {
	ID          string
	Title       string
	Description string
	Instructor  string
	Lessons     []Lesson
	NotePath    string
}

// Validate checks the course and every lesson, stamping lessons with the
// course id and sorting them by order.
func (c *Course) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: course id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: course %s: title is required", apperrors.ErrInvalidInput, c.ID)
	}
	for i := range c.Lessons {
		if c.Lessons[i].CourseID == "" {
			c.Lessons[i].CourseID = c.ID
		}
		if c.Lessons[i].CourseID != c.ID {
			return fmt.Errorf("%w: lesson %s belongs to %s, not %s", apperrors.ErrInvalidInput, c.Lessons[i].ID, c.Lessons[i].CourseID, c.ID)
		}
		if err := c.Lessons[i].Validate(); err != nil {
			return err
		}
	}
	SortLessons(c.Lessons)
	return nil
}

// SortLessons orders lessons by Order, then by id for equal orders.
func SortLessons(lessons []Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		if lessons[i].Order != lessons[j].Order {
			return lessons[i].Order < lessons[j].Order
		}
		return lessons[i].ID < lessons[j].ID
	})
}

// Progress counts the course lessons found in completed and the share they
// make up, truncated to a whole percent. A course without lessons reports 0.
func (c Course) Progress(completed map[string]bool) (done int, percent int) {
	for _, lesson := range c.Lessons {
		if completed[lesson.ID] {
			done++
		}
	}
	if len(c.Lessons) == 0 {
		return done, 0
	}
	return done, done * 100 / len(c.Lessons)
}

func (c Course) TotalMinutes() int {
	total := 0
	for _, lesson := range c.Lessons {
		total += lesson.DurationMinutes
	}
	return total
}

// Catalog indexes courses by id and lessons by id across all courses.
type Catalog struct {
	courses []Course
	byID    map[string]int
	lessons map[string]Lesson
}

func NewCatalog(courses ...Course) (Catalog, error) {
	catalog := Catalog{
		courses: make([]Course, 0, len(courses)),
		byID:    make(map[string]int, len(courses)),
		lessons: map[string]Lesson{},
	}
	for _, course := range courses {
		course.Lessons = append([]Lesson(nil), course.Lessons...)
		if err := course.Validate(); err != nil {
			return Catalog{}, err
		}
		if _, exists := catalog.byID[course.ID]; exists {
			return Catalog{}, fmt.Errorf("%w: duplicate course id %s", apperrors.ErrInvalidInput, course.ID)
		}
		for _, lesson := range course.Lessons {
			if other, exists := catalog.lessons[lesson.ID]; exists {
				return Catalog{}, fmt.Errorf("%w: lesson id %s used by %s and %s", apperrors.ErrInvalidInput, lesson.ID, other.CourseID, course.ID)
			}
			catalog.lessons[lesson.ID] = lesson
		}
		catalog.byID[course.ID] = len(catalog.courses)
		catalog.courses = append(catalog.courses, course)
	}
	sort.SliceStable(catalog.courses, func(i, j int) bool {
		return catalog.courses[i].Title < catalog.courses[j].Title
	})
	for i, course := range catalog.courses {
		catalog.byID[course.ID] = i
	}
	return catalog, nil
}

// Courses returns the courses sorted by title.
func (c Catalog) Courses() []Course {
	return append([]Course(nil), c.courses...)
}

func (c Catalog) Course(id string) (Course, error) {
	i, ok := c.byID[id]
	if !ok {
		return Course{}, fmt.Errorf("%w: course %s", apperrors.ErrNotFound, id)
	}
	return c.courses[i], nil
}

func (c Catalog) Lesson(id string) (Lesson, error) {
	lesson, ok := c.lessons[id]
	if !ok {
		return Lesson{}, fmt.Errorf("%w: lesson %s", apperrors.ErrNotFound, id)
	}
	return lesson, nil
}

func (c Catalog) Len() int { return len(c.courses) }

// DefaultCourses is written to an empty course vault on first use.
func DefaultCourses() []Course {
	return []Course{
		{
			ID:          "go-basics",
			Title:       "Go Basics",
			Description: "A first pass through the Go language.",
			Instructor:  "StudyLoop",
			Lessons: []Lesson{
				{ID: "go-101", Title: "Introduction to Go", DurationMinutes: 15, Order: 1,
					Content: "Install the toolchain, write hello world and run it."},
				{ID: "go-102", Title: "Variables and Data Types", DurationMinutes: 20, Order: 2,
					Content: "Declarations, zero values, basic types and conversions."},
				{ID: "go-103", Title: "Control Structures", DurationMinutes: 25, Order: 3,
					Content: "if, for, switch and defer."},
			},
		},
		{
			ID:          "study-skills",
			Title:       "Study Skills",
			Description: "Techniques for focused, durable learning.",
			Instructor:  "StudyLoop",
			Lessons: []Lesson{
				{ID: "study-101", Title: "The Pomodoro Technique", DurationMinutes: 10, Order: 1,
					Content: "Work in 25 minute focus blocks separated by 5 minute breaks."},
				{ID: "study-102", Title: "Active Recall", DurationMinutes: 15, Order: 2,
					Content: "Test yourself instead of rereading."},
				{ID: "study-103", Title: "Spaced Repetition", DurationMinutes: 15, Order: 3,
					Content: "Review material at growing intervals."},
			},
		},
	}
}

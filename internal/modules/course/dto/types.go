package dto

type ListCoursesInput struct {
	CompletedLessons []string
}

type CourseOutput struct {
	ID               string
	Title            string
	Description      string
	Instructor       string
	TotalLessons     int
	CompletedLessons int
	ProgressPercent  int
	TotalMinutes     int
	NotePath         string
}

type LessonOutput struct {
	ID              string
	CourseID        string
	Title           string
	Content         string
	VideoURL        string
	DurationMinutes int
	Order           int
	Completed       bool
}

type LessonsInput struct {
	CourseID         string
	CompletedLessons []string
}

type LessonsOutput struct {
	Course  CourseOutput
	Lessons []LessonOutput
}

type SeedOutput struct {
	Seeded int
	Paths  []string
}

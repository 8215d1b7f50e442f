package dto

import "time"

type LoginInput struct {
	UserID string
	Name   string
	Email  string
}

type ProfileOutput struct {
	ID               string
	Name             string
	Email            string
	CompletedLessons []string
	SignedInAt       time.Time
	Path             string
}

type CompleteLessonInput struct {
	LessonID string
}

type CompleteLessonOutput struct {
	ProfileID        string
	LessonID         string
	AlreadyCompleted bool
	CompletedLessons int
}

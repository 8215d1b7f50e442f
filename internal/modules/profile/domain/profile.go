package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	apperrors "studyloop/internal/platform/errors"
)

const SchemaVersion = 1

type Profile struct {
	ID               string    `yaml:"id"`
	Name             string    `yaml:"name"`
	Email            string    `yaml:"email,omitempty"`
	CompletedLessons []string  `yaml:"completed_lessons"`
	CreatedAt        time.Time `yaml:"created_at"`
	UpdatedAt        time.Time `yaml:"updated_at"`
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: profile id is required", apperrors.ErrInvalidInput)
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return fmt.Errorf("%w: invalid email %q", apperrors.ErrInvalidInput, p.Email)
		}
	}
	return nil
}

// CompleteLesson records lessonID once. It reports false when the lesson was
// already complete.
func (p *Profile) CompleteLesson(lessonID string, at time.Time) bool {
	for _, existing := range p.CompletedLessons {
		if existing == lessonID {
			return false
		}
	}
	p.CompletedLessons = append(p.CompletedLessons, lessonID)
	p.UpdatedAt = at
	return true
}

// ActiveIdentity marks which profile is signed in on this device.
type ActiveIdentity struct {
	UserID     string    `json:"user_id"`
	SignedInAt time.Time `json:"signed_in_at"`
}

package in

import (
	"context"

	"studyloop/internal/modules/profile/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.ProfileOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (dto.ProfileOutput, error)
	GetProfile(ctx context.Context, id string) (dto.ProfileOutput, error)
	CompleteLesson(ctx context.Context, input dto.CompleteLessonInput) (dto.CompleteLessonOutput, error)
}

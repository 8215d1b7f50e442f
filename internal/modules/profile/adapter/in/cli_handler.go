package in

import (
	"context"

	profiledto "studyloop/internal/modules/profile/dto"
	profilein "studyloop/internal/modules/profile/port/in"
)

type CLIHandler struct {
	usecase profilein.Usecase
}

func NewCLIHandler(usecase profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, userID, name, email string) (profiledto.ProfileOutput, error) {
	return h.usecase.Login(ctx, profiledto.LoginInput{UserID: userID, Name: name, Email: email})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (profiledto.ProfileOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) CompleteLesson(ctx context.Context, lessonID string) (profiledto.CompleteLessonOutput, error) {
	return h.usecase.CompleteLesson(ctx, profiledto.CompleteLessonInput{LessonID: lessonID})
}

func (h CLIHandler) Profile(ctx context.Context, id string) (profiledto.ProfileOutput, error) {
	return h.usecase.GetProfile(ctx, id)
}

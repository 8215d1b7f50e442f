package in

import (
	"context"

	timerdto "studyloop/internal/modules/timer/dto"
	timerin "studyloop/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Stats(ctx context.Context, ownerID string) (timerdto.StatsOutput, error) {
	return h.usecase.Stats(ctx, timerdto.StatsInput{OwnerID: ownerID})
}

func (h CLIHandler) History(ctx context.Context, ownerID string, limit int) ([]timerdto.SessionOutput, error) {
	return h.usecase.History(ctx, timerdto.HistoryInput{OwnerID: ownerID, Limit: limit})
}

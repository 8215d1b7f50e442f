package in

import (
	"context"

	"studyloop/internal/modules/timer/dto"
)

type Usecase interface {
	Start(ctx context.Context) dto.StateOutput
	Pause(ctx context.Context) dto.StateOutput
	Reset(ctx context.Context) dto.StateOutput
	State(ctx context.Context) dto.StateOutput
	Subscribe(ctx context.Context, buffer int) <-chan dto.EventOutput
	Stats(ctx context.Context, input dto.StatsInput) (dto.StatsOutput, error)
	History(ctx context.Context, input dto.HistoryInput) ([]dto.SessionOutput, error)
	Close()
}

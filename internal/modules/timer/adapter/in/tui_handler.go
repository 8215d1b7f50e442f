package in

import (
	"context"

	timerdto "studyloop/internal/modules/timer/dto"
	timerin "studyloop/internal/modules/timer/port/in"
)

type TUIHandler struct {
	usecase timerin.Usecase
}

func NewTUIHandler(usecase timerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Start(ctx context.Context) timerdto.StateOutput {
	return h.usecase.Start(ctx)
}

func (h TUIHandler) Pause(ctx context.Context) timerdto.StateOutput {
	return h.usecase.Pause(ctx)
}

func (h TUIHandler) Reset(ctx context.Context) timerdto.StateOutput {
	return h.usecase.Reset(ctx)
}

func (h TUIHandler) State(ctx context.Context) timerdto.StateOutput {
	return h.usecase.State(ctx)
}

func (h TUIHandler) Events(ctx context.Context) <-chan timerdto.EventOutput {
	return h.usecase.Subscribe(ctx, 64)
}

func (h TUIHandler) Stats(ctx context.Context) (timerdto.StatsOutput, error) {
	return h.usecase.Stats(ctx, timerdto.StatsInput{})
}

package in

import (
	"context"
	"io"

	"studyloop/internal/modules/engagement/dto"
)

type Usecase interface {
	Classify(ctx context.Context, input dto.ClassifyInput) (dto.ClassifyOutput, error)
	// Analyze classifies a JSON-lines stream with one reading per line.
	Analyze(ctx context.Context, stream io.Reader) (dto.AnalyzeOutput, error)
}

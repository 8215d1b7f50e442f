package in

import (
	"context"
	"io"

	engagementdto "studyloop/internal/modules/engagement/dto"
	engagementin "studyloop/internal/modules/engagement/port/in"
)

type CLIHandler struct {
	usecase engagementin.Usecase
}

func NewCLIHandler(usecase engagementin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Classify(ctx context.Context, faceDetected bool, left, right *float64) (engagementdto.ClassifyOutput, error) {
	return h.usecase.Classify(ctx, engagementdto.ClassifyInput{FaceDetected: faceDetected, LeftEyeOpen: left, RightEyeOpen: right})
}

func (h CLIHandler) Analyze(ctx context.Context, stream io.Reader) (engagementdto.AnalyzeOutput, error) {
	return h.usecase.Analyze(ctx, stream)
}

package usecase

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"studyloop/internal/modules/engagement/domain"
	engagementdto "studyloop/internal/modules/engagement/dto"
	engagementin "studyloop/internal/modules/engagement/port/in"
	apperrors "studyloop/internal/platform/errors"
	"studyloop/internal/platform/logging"
)

const maxLineBytes = 1 << 20

type Interactor struct {
	logger logging.Logger
}

func NewInteractor(logger logging.Logger) engagementin.Usecase {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Interactor{logger: logger}
}

func (i *Interactor) Classify(_ context.Context, input engagementdto.ClassifyInput) (engagementdto.ClassifyOutput, error) {
	reading := domain.Reading{
		FaceDetected:            input.FaceDetected,
		LeftEyeOpenProbability:  input.LeftEyeOpen,
		RightEyeOpenProbability: input.RightEyeOpen,
	}
	if err := validateReading(reading); err != nil {
		return engagementdto.ClassifyOutput{}, err
	}
	state := domain.Classify(reading)
	return engagementdto.ClassifyOutput{State: string(state), Suggestion: domain.Suggestion(state)}, nil
}

func (i *Interactor) Analyze(ctx context.Context, stream io.Reader) (engagementdto.AnalyzeOutput, error) {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var frames []engagementdto.FrameOutput
	var states []domain.State
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return engagementdto.AnalyzeOutput{}, err
		}
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var reading domain.Reading
		if err := json.Unmarshal(raw, &reading); err != nil {
			return engagementdto.AnalyzeOutput{}, fmt.Errorf("%w: line %d: %v", apperrors.ErrInvalidInput, line, err)
		}
		if err := validateReading(reading); err != nil {
			return engagementdto.AnalyzeOutput{}, fmt.Errorf("line %d: %w", line, err)
		}
		state := domain.Classify(reading)
		states = append(states, state)
		frames = append(frames, engagementdto.FrameOutput{Line: line, State: string(state)})
	}
	if err := scanner.Err(); err != nil {
		return engagementdto.AnalyzeOutput{}, fmt.Errorf("read readings: %w", err)
	}

	summary := domain.Summarize(states)
	out := engagementdto.AnalyzeOutput{
		Frames:     frames,
		Counts:     make(map[string]int, len(domain.States)),
		Dominant:   string(summary.Dominant),
		Total:      summary.Frames,
		Suggestion: domain.Suggestion(summary.Dominant),
	}
	for _, state := range domain.States {
		out.Counts[string(state)] = summary.Counts[state]
	}
	i.logger.Debugf("classified %d frames, dominant %q", summary.Frames, summary.Dominant)
	return out, nil
}

// validateReading checks the left eye before the right one.
func validateReading(reading domain.Reading) error {
	if err := validateProbability("left_eye_open_probability", reading.LeftEyeOpenProbability); err != nil {
		return err
	}
	return validateProbability("right_eye_open_probability", reading.RightEyeOpenProbability)
}

func validateProbability(name string, p *float64) error {
	if p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("%w: %s must be within [0,1], got %v", apperrors.ErrInvalidInput, name, *p)
	}
	return nil
}

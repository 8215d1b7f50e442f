package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	engagementdto "studyloop/internal/modules/engagement/dto"
	"studyloop/internal/modules/engagement/usecase"
	apperrors "studyloop/internal/platform/errors"
)

func prob(v float64) *float64 { return &v }

func TestClassifyReturnsStateAndSuggestion(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(nil)
	out, err := uc.Classify(context.Background(), engagementdto.ClassifyInput{FaceDetected: true, LeftEyeOpen: prob(0.1), RightEyeOpen: prob(0.2)})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if out.State != "TIRED" || out.Suggestion == "" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if _, err := uc.Classify(context.Background(), engagementdto.ClassifyInput{FaceDetected: true, LeftEyeOpen: prob(1.5)}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("out of range probability should be invalid input, got %v", err)
	}
}

func TestAnalyzeClassifiesEveryFrame(t *testing.T) {
	t.Parallel()
	stream := strings.Join([]string{
		`{"face_detected": true, "left_eye_open_probability": 0.9, "right_eye_open_probability": 0.8}`,
		``,
		`{"face_detected": false}`,
		`{"face_detected": true, "left_eye_open_probability": 0.1, "right_eye_open_probability": 0.2}`,
		`{"face_detected": true, "left_eye_open_probability": 0.05, "right_eye_open_probability": 0.1}`,
		`{"face_detected": true, "left_eye_open_probability": 0.05}`,
	}, "\n")

	out, err := usecase.NewInteractor(nil).Analyze(context.Background(), strings.NewReader(stream))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := []engagementdto.FrameOutput{
		{Line: 1, State: "FOCUSED"},
		{Line: 3, State: "DISTRACTED"},
		{Line: 4, State: "TIRED"},
		{Line: 5, State: "TIRED"},
		{Line: 6, State: "FOCUSED"},
	}
	if len(out.Frames) != len(want) {
		t.Fatalf("expected %d frames, got %+v", len(want), out.Frames)
	}
	for i := range want {
		if out.Frames[i] != want[i] {
			t.Fatalf("frame %d: want %+v got %+v", i, want[i], out.Frames[i])
		}
	}
	if out.Total != 5 || out.Counts["TIRED"] != 2 || out.Counts["FOCUSED"] != 2 || out.Counts["DISTRACTED"] != 1 {
		t.Fatalf("unexpected counts: %+v", out)
	}
	if out.Dominant != "FOCUSED" || out.Suggestion != "" {
		t.Fatalf("tie should resolve to FOCUSED: %+v", out)
	}
}

func TestAnalyzeReportsBadLine(t *testing.T) {
	t.Parallel()
	stream := "{\"face_detected\": true}\n{not json}\n"
	_, err := usecase.NewInteractor(nil).Analyze(context.Background(), strings.NewReader(stream))
	if !errors.Is(err, apperrors.ErrInvalidInput) || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected invalid input on line 2, got %v", err)
	}
}

func TestAnalyzeEmptyStream(t *testing.T) {
	t.Parallel()
	out, err := usecase.NewInteractor(nil).Analyze(context.Background(), strings.NewReader(""))
	if err != nil || out.Total != 0 || out.Dominant != "" || len(out.Frames) != 0 {
		t.Fatalf("unexpected empty analysis %+v (%v)", out, err)
	}
}

func TestInvalidProbabilitiesReportLeftEyeFirst(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(nil)
	for i := 0; i < 20; i++ {
		_, err := uc.Classify(context.Background(), engagementdto.ClassifyInput{FaceDetected: true, LeftEyeOpen: prob(-0.5), RightEyeOpen: prob(2)})
		if !errors.Is(err, apperrors.ErrInvalidInput) || !strings.Contains(err.Error(), "left_eye_open_probability") {
			t.Fatalf("attempt %d: expected the left eye to be reported, got %v", i, err)
		}
	}
	_, err := uc.Classify(context.Background(), engagementdto.ClassifyInput{FaceDetected: true, LeftEyeOpen: prob(0.5), RightEyeOpen: prob(2)})
	if err == nil || !strings.Contains(err.Error(), "right_eye_open_probability") {
		t.Fatalf("expected the right eye to be reported, got %v", err)
	}
}

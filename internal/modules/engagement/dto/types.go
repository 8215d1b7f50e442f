package dto

type ClassifyInput struct {
	FaceDetected bool
	LeftEyeOpen  *float64
	RightEyeOpen *float64
}

type ClassifyOutput struct {
	State      string
	Suggestion string
}

type FrameOutput struct {
	Line  int
	State string
}

type AnalyzeOutput struct {
	Frames     []FrameOutput
	Counts     map[string]int
	Dominant   string
	Total      int
	Suggestion string
}

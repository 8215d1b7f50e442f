package domain

// State is the attentiveness label derived from one camera frame.
type State string

const (
	StateFocused    State = "FOCUSED"
	StateTired      State = "TIRED"
	StateDistracted State = "DISTRACTED"
)

// States lists every label in reporting order.
var States = []State{StateFocused, StateTired, StateDistracted}

// EyeClosedThreshold is the open probability below which an eye counts as closed.
const EyeClosedThreshold = 0.3

// Reading holds the face signals of a single frame. Eye probabilities are
// nil when the detector could not classify the eye.
type Reading struct {
	FaceDetected            bool     `json:"face_detected"`
	LeftEyeOpenProbability  *float64 `json:"left_eye_open_probability,omitempty"`
	RightEyeOpenProbability *float64 `json:"right_eye_open_probability,omitempty"`
}

// Classify labels one reading. No face means distracted; both eyes known
// and closed means tired; anything else is focused.
func Classify(reading Reading) State {
	if !reading.FaceDetected {
		return StateDistracted
	}
	left, right := reading.LeftEyeOpenProbability, reading.RightEyeOpenProbability
	if left != nil && right != nil && *left < EyeClosedThreshold && *right < EyeClosedThreshold {
		return StateTired
	}
	return StateFocused
}

func Suggestion(state State) string {
	switch state {
	case StateTired:
		return "You seem tired. Take a break!"
	case StateDistracted:
		return "Stay focused! You can do it!"
	default:
		return ""
	}
}

type Summary struct {
	Counts   map[State]int
	Dominant State
	Frames   int
}

// Summarize counts states. Dominant is the most frequent state, ties going
// to the earlier entry of States; it is empty when there are no frames.
func Summarize(states []State) Summary {
	summary := Summary{Counts: make(map[State]int, len(States)), Frames: len(states)}
	for _, state := range states {
		summary.Counts[state]++
	}
	best := 0
	for _, state := range States {
		if n := summary.Counts[state]; n > best {
			best = n
			summary.Dominant = state
		}
	}
	return summary
}

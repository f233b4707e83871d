package emotion

// #region labels

// Label is one of the seven fixed emotion categories.
type Label string

const (
	Angry    Label = "angry"
	Disgust  Label = "disgust"
	Fear     Label = "fear"
	Happy    Label = "happy"
	Sad      Label = "sad"
	Surprise Label = "surprise"
	Neutral  Label = "neutral"
)

// Labels is the canonical enumeration order. All argmax tie-breaks scan
// labels in this order, so equal scores resolve deterministically.
var Labels = []Label{Angry, Disgust, Fear, Happy, Sad, Surprise, Neutral}

// NormalizeLabel collapses anything outside the fixed label set to Neutral.
func NormalizeLabel(s string) Label {
	for _, l := range Labels {
		if string(l) == s {
			return l
		}
	}
	return Neutral
}

// #endregion labels

// #region source

// Source identifies where an emotion sample came from.
type Source string

const (
	SourceLocal    Source = "local"    // local face-sampling estimator
	SourceExternal Source = "external" // embedded hints from the gaze source
)

// #endregion source

// #region scores

// Scores maps each label to its probability mass.
type Scores map[Label]float64

// Clone returns an independent copy of the score map.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Sum returns the total mass across all labels.
func (s Scores) Sum() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// Normalize divides every value by the sum so the map forms a probability
// distribution. A zero sum leaves the map unchanged.
func (s Scores) Normalize() {
	total := s.Sum()
	if total == 0 {
		return
	}
	for k, v := range s {
		s[k] = v / total
	}
}

// Dominant returns the label with the highest score, scanning Labels in
// enumeration order so ties resolve to the first label encountered.
func (s Scores) Dominant() Label {
	best := Neutral
	bestScore := -1.0
	for _, l := range Labels {
		if v, ok := s[l]; ok && v > bestScore {
			best = l
			bestScore = v
		}
	}
	return best
}

// NeutralOnly is the fixed no-face distribution: all mass on neutral.
func NeutralOnly() Scores {
	s := Scores{}
	for _, l := range Labels {
		s[l] = 0
	}
	s[Neutral] = 1
	return s
}

// #endregion scores

// #region samples

// Sample is a single emotion observation.
type Sample struct {
	Emotion      Label   `json:"emotion"`
	Scores       Scores  `json:"emotion_scores"`
	FaceDetected bool    `json:"face_detected"`
	Timestamp    float64 `json:"timestamp"`
	Source       Source  `json:"source"`
}

// Clone returns a deep copy; the score map is never shared.
func (s Sample) Clone() Sample {
	out := s
	out.Scores = s.Scores.Clone()
	return out
}

// HeadPose carries the reported head position and orientation.
type HeadPose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// GazeSample is a single gaze observation. GazeX and GazeY are
// screen-normalized to [0,1] with 0 at the left/top edge.
type GazeSample struct {
	GazeX     float64  `json:"gaze_x"`
	GazeY     float64  `json:"gaze_y"`
	HeadPose  HeadPose `json:"head_pose"`
	Timestamp float64  `json:"timestamp"`
}

// #endregion samples

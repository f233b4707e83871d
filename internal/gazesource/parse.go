package gazesource

// #region imports
import (
	"encoding/json"
	"fmt"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

// #endregion

// #region wire-maps

// The gaze source reports emotions under several competing key formats.
// Scan order is fixed: direct fields, nested "Emotions", then
// "FacialExpressions"; later formats overwrite earlier values per label.
// The alternate expression fields are consulted only when the first three
// formats produced nothing.
var emotionKeyOrder = []string{"Happy", "Sad", "Angry", "Surprised", "Neutral", "Fear", "Disgust"}

var emotionKeyMap = map[string]emotion.Label{
	"Happy":     emotion.Happy,
	"Sad":       emotion.Sad,
	"Angry":     emotion.Angry,
	"Surprised": emotion.Surprise,
	"Neutral":   emotion.Neutral,
	"Fear":      emotion.Fear,
	"Disgust":   emotion.Disgust,
}

var expressionKeyOrder = []string{"Smile", "Frown", "MouthOpen", "EyebrowRaise", "BrowFurrow"}

var expressionKeyMap = map[string]emotion.Label{
	"Smile":        emotion.Happy,
	"Frown":        emotion.Sad,
	"MouthOpen":    emotion.Surprise,
	"EyebrowRaise": emotion.Surprise,
	"BrowFurrow":   emotion.Angry,
}

// expressionThreshold is the minimum intensity for an alternate expression
// field to count as an emotion hint.
const expressionThreshold = 0.5

// #endregion wire-maps

// #region message

// Message is one translated gaze-source record. EmotionHint is non-nil
// when the record embedded emotion data in any recognized format.
type Message struct {
	Gaze         emotion.GazeSample
	FaceDetected bool
	EmotionHint  *emotion.Sample
}

// #endregion message

// #region parse

// ParseMessage translates a raw gaze-source JSON record into canonical
// samples. Unknown keys are ignored; missing numeric fields default to 0.
func ParseMessage(data []byte) (Message, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("parse gaze message: %w", err)
	}

	msg := Message{
		Gaze: emotion.GazeSample{
			GazeX: numField(raw, "GazeX"),
			GazeY: numField(raw, "GazeY"),
			HeadPose: emotion.HeadPose{
				X:     numField(raw, "HeadX"),
				Y:     numField(raw, "HeadY"),
				Z:     numField(raw, "HeadZ"),
				Yaw:   numField(raw, "HeadYaw"),
				Pitch: numField(raw, "HeadPitch"),
				Roll:  numField(raw, "HeadRoll"),
			},
		},
		FaceDetected: boolFieldOr(raw, "face_detected", true),
	}

	if hint, ok := extractEmotion(raw); ok {
		hint.FaceDetected = msg.FaceDetected
		msg.EmotionHint = &hint
	}
	return msg, nil
}

// #endregion parse

// #region extract-emotion

// extractEmotion collects per-label hints across all matching formats and
// derives the dominant label from whichever fields were found. Ties break
// by scan order via a strictly-greater comparison over first-written keys.
func extractEmotion(raw map[string]any) (emotion.Sample, bool) {
	hints := make(map[emotion.Label]float64)
	var order []emotion.Label

	set := func(l emotion.Label, v float64) {
		if _, ok := hints[l]; !ok {
			order = append(order, l)
		}
		hints[l] = v
	}

	// Format 1: direct emotion fields on the record.
	for _, key := range emotionKeyOrder {
		if v, ok := numFieldOK(raw, key); ok {
			set(emotionKeyMap[key], v)
		}
	}

	// Format 2: nested "Emotions" object.
	if nested, ok := raw["Emotions"].(map[string]any); ok {
		for _, key := range emotionKeyOrder {
			if v, ok := numFieldOK(nested, key); ok {
				set(emotionKeyMap[key], v)
			}
		}
	}

	// Format 3: "FacialExpressions" object.
	if nested, ok := raw["FacialExpressions"].(map[string]any); ok {
		for _, key := range emotionKeyOrder {
			if v, ok := numFieldOK(nested, key); ok {
				set(emotionKeyMap[key], v)
			}
		}
	}

	// Format 4: alternate expression fields, only when nothing matched yet.
	if len(hints) == 0 {
		for _, key := range expressionKeyOrder {
			if v, ok := numFieldOK(raw, key); ok && v > expressionThreshold {
				set(expressionKeyMap[key], v)
			}
		}
	}

	if len(hints) == 0 {
		return emotion.Sample{}, false
	}

	dominant := order[0]
	best := hints[dominant]
	for _, l := range order[1:] {
		if hints[l] > best {
			dominant = l
			best = hints[l]
		}
	}

	// Fill the full label set around the hints, then normalize so the
	// sample satisfies the distribution invariant at the boundary.
	scores := emotion.NeutralOnly()
	for l, v := range hints {
		scores[l] = v
	}
	scores.Normalize()

	return emotion.Sample{
		Emotion: dominant,
		Scores:  scores,
		Source:  emotion.SourceExternal,
	}, true
}

// #endregion extract-emotion

// #region field-helpers

func numField(raw map[string]any, key string) float64 {
	v, _ := numFieldOK(raw, key)
	return v
}

func numFieldOK(raw map[string]any, key string) (float64, bool) {
	v, ok := raw[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func boolFieldOr(raw map[string]any, key string, fallback bool) bool {
	if v, ok := raw[key].(bool); ok {
		return v
	}
	return fallback
}

// #endregion field-helpers

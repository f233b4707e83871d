package collector

import "github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"

// #region image-ref

// ImageRef identifies one stimulus image. Immutable once loaded.
type ImageRef struct {
	Path     string `json:"path"`
	Category string `json:"category"`
	Filename string `json:"filename"`
}

// #endregion image-ref

// #region pair

// Pair is one viewing trial: two images shown side by side plus every
// sample collected while the trial was open. EndTime is zero while the
// pair is still open.
type Pair struct {
	PairID         int                  `json:"pair_id"`
	LeftImage      ImageRef             `json:"left_image"`
	RightImage     ImageRef             `json:"right_image"`
	StartTime      float64              `json:"start_time"`
	EndTime        float64              `json:"end_time"`
	GazeSamples    []emotion.GazeSample `json:"gaze_samples"`
	EmotionSamples []emotion.Sample     `json:"emotion_samples"`
}

func (p Pair) clone() Pair {
	out := p
	out.GazeSamples = append([]emotion.GazeSample(nil), p.GazeSamples...)
	out.EmotionSamples = make([]emotion.Sample, len(p.EmotionSamples))
	for i, s := range p.EmotionSamples {
		out.EmotionSamples[i] = s.Clone()
	}
	return out
}

// #endregion pair

// #region gaze-distribution

// GazeDistribution partitions a pair's gaze samples into the three fixed
// horizontal buckets. Fractions sum to 1 when any samples exist.
type GazeDistribution struct {
	Left         float64 `json:"left"`
	Right        float64 `json:"right"`
	Outside      float64 `json:"outside"`
	Preferred    string  `json:"preferred,omitempty"`
	LeftCount    int     `json:"left_count"`
	RightCount   int     `json:"right_count"`
	OutsideCount int     `json:"outside_count"`
}

// #endregion gaze-distribution

// #region emotion-summary

// EmotionSummary is the dominance result for one sample set. An empty set
// yields the sentinel {dominant: neutral, counts: {neutral: 1}} with no
// average scores; callers must not read it as a real 100%-neutral
// observation.
type EmotionSummary struct {
	Dominant      emotion.Label             `json:"dominant"`
	Counts        map[emotion.Label]int     `json:"counts"`
	AverageScores map[emotion.Label]float64 `json:"average_scores,omitempty"`
}

// #endregion emotion-summary

// #region category-ranking

// CategoryShare is one category's accumulated gaze fraction.
type CategoryShare struct {
	Category string  `json:"category"`
	GazeTime float64 `json:"gaze_time"`
}

// CategoryRanking orders categories by accumulated per-pair gaze fractions.
// Rankings is an ordered slice rather than a map so the descending order
// (and stable tie order) survives serialization.
type CategoryRanking struct {
	Favorite string          `json:"favorite"`
	Rankings []CategoryShare `json:"rankings"`
}

// #endregion category-ranking

// #region pair-analysis

// PairAnalysis is the derived view of one closed pair.
type PairAnalysis struct {
	PairID     int              `json:"pair_id"`
	Duration   float64          `json:"duration"`
	LeftImage  ImageRef         `json:"left_image"`
	RightImage ImageRef         `json:"right_image"`
	Gaze       GazeDistribution `json:"gaze_distribution"`
	Emotions   EmotionSummary   `json:"emotions"`
}

// #endregion pair-analysis

// #region session-results

// SessionResults is the read-only session view computed on demand from the
// closed-pair history. The zero value is the explicit empty result.
type SessionResults struct {
	Pairs              []PairAnalysis   `json:"pairs,omitempty"`
	OverallEmotions    *EmotionSummary  `json:"overall_emotions,omitempty"`
	FavoriteCategories *CategoryRanking `json:"favorite_categories,omitempty"`
	SessionDuration    float64          `json:"session_duration,omitempty"`
}

// Empty reports whether the results carry no analyzed pairs.
func (r SessionResults) Empty() bool {
	return len(r.Pairs) == 0 && r.OverallEmotions == nil
}

// #endregion session-results

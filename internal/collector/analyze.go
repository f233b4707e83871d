package collector

// #region imports
import (
	"sort"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

// #endregion

// #region gaze-thresholds

// Fixed horizontal bucket thresholds: strictly below left of 0.4 is the
// left image, strictly above 0.6 the right image, the band between is
// outside both.
const (
	leftThreshold  = 0.4
	rightThreshold = 0.6
)

// #endregion gaze-thresholds

// #region analyze-pair

func analyzePair(p Pair) PairAnalysis {
	return PairAnalysis{
		PairID:     p.PairID,
		Duration:   p.EndTime - p.StartTime,
		LeftImage:  p.LeftImage,
		RightImage: p.RightImage,
		Gaze:       gazeDistribution(p.GazeSamples),
		Emotions:   emotionSummary(p.EmotionSamples),
	}
}

// #endregion analyze-pair

// #region gaze-distribution

// gazeDistribution buckets gaze samples by horizontal position. With zero
// samples everything falls outside. A left/right count tie resolves to
// "right", a fixed tie-break.
func gazeDistribution(samples []emotion.GazeSample) GazeDistribution {
	if len(samples) == 0 {
		return GazeDistribution{Outside: 1.0}
	}

	var left, right, outside int
	for _, s := range samples {
		switch {
		case s.GazeX < leftThreshold:
			left++
		case s.GazeX > rightThreshold:
			right++
		default:
			outside++
		}
	}

	total := float64(left + right + outside)
	preferred := "right"
	if left > right {
		preferred = "left"
	}

	return GazeDistribution{
		Left:         float64(left) / total,
		Right:        float64(right) / total,
		Outside:      float64(outside) / total,
		Preferred:    preferred,
		LeftCount:    left,
		RightCount:   right,
		OutsideCount: outside,
	}
}

// #endregion gaze-distribution

// #region emotion-summary

// emotionSummary counts label occurrences (unrecognized labels collapse to
// neutral) and averages per-label scores. Labels absent from a sample's
// score map are excluded from that label's mean, not treated as zero.
// Count ties resolve to the first label reaching the max in the fixed
// label order.
func emotionSummary(samples []emotion.Sample) EmotionSummary {
	if len(samples) == 0 {
		return EmotionSummary{
			Dominant: emotion.Neutral,
			Counts:   map[emotion.Label]int{emotion.Neutral: 1},
		}
	}

	counts := make(map[emotion.Label]int)
	for _, s := range samples {
		counts[emotion.NormalizeLabel(string(s.Emotion))]++
	}

	dominant := emotion.Neutral
	best := -1
	for _, l := range emotion.Labels {
		if n, ok := counts[l]; ok && n > best {
			dominant = l
			best = n
		}
	}

	sums := make(map[emotion.Label]float64)
	seen := make(map[emotion.Label]int)
	for _, s := range samples {
		for l, v := range s.Scores {
			sums[l] += v
			seen[l]++
		}
	}
	var averages map[emotion.Label]float64
	if len(sums) > 0 {
		averages = make(map[emotion.Label]float64, len(sums))
		for l, sum := range sums {
			averages[l] = sum / float64(seen[l])
		}
	}

	return EmotionSummary{Dominant: dominant, Counts: counts, AverageScores: averages}
}

// overallEmotions applies the same routine to every sample in the session.
func overallEmotions(history []Pair) EmotionSummary {
	var all []emotion.Sample
	for _, p := range history {
		all = append(all, p.EmotionSamples...)
	}
	return emotionSummary(all)
}

// #endregion emotion-summary

// #region favorite-categories

// favoriteCategories accumulates each pair's left/right gaze fractions
// into the corresponding image categories. Fractions, not sample counts:
// every pair contributes equally regardless of how many samples it holds.
// The descending sort is stable, so equal categories keep accumulation
// order.
func favoriteCategories(history []Pair) CategoryRanking {
	totals := make(map[string]float64)
	var order []string

	accumulate := func(category string, share float64) {
		if category == "" {
			category = "unknown"
		}
		if _, ok := totals[category]; !ok {
			order = append(order, category)
		}
		totals[category] += share
	}

	for _, p := range history {
		dist := gazeDistribution(p.GazeSamples)
		accumulate(p.LeftImage.Category, dist.Left)
		accumulate(p.RightImage.Category, dist.Right)
	}

	rankings := make([]CategoryShare, 0, len(order))
	for _, cat := range order {
		rankings = append(rankings, CategoryShare{Category: cat, GazeTime: totals[cat]})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].GazeTime > rankings[j].GazeTime
	})

	favorite := "unknown"
	if len(rankings) > 0 {
		favorite = rankings[0].Category
	}
	return CategoryRanking{Favorite: favorite, Rankings: rankings}
}

// #endregion favorite-categories

// #region session-duration

func sessionDuration(history []Pair) float64 {
	if len(history) == 0 {
		return 0
	}
	start := history[0].StartTime
	end := history[0].EndTime
	for _, p := range history[1:] {
		if p.StartTime < start {
			start = p.StartTime
		}
		if p.EndTime > end {
			end = p.EndTime
		}
	}
	return end - start
}

// #endregion session-duration

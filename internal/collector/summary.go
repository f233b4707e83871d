package collector

// #region imports
import (
	"fmt"
	"sort"
	"strings"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

// #endregion

// #region summary-text

// SummaryText renders results as the human-readable session report:
// duration, dominant emotion with percentage breakdown, favorite category
// with ranked percentages, then one block per pair.
func SummaryText(results SessionResults) string {
	if results.Empty() {
		return "No data collected."
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Session Duration: %.1f seconds", results.SessionDuration))

	if overall := results.OverallEmotions; overall != nil {
		lines = append(lines, fmt.Sprintf("Dominant Emotion: %s", overall.Dominant))

		if len(overall.Counts) > 0 {
			lines = append(lines, "\nEmotion Breakdown:")
			total := 0
			for _, n := range overall.Counts {
				total += n
			}
			for _, e := range sortedCounts(overall.Counts) {
				pct := float64(e.count) / float64(total) * 100
				lines = append(lines, fmt.Sprintf("- %s: %.1f%%", e.label, pct))
			}
		}
	}

	if fav := results.FavoriteCategories; fav != nil {
		lines = append(lines, fmt.Sprintf("\nFavorite Image Category: %s", fav.Favorite))

		if len(fav.Rankings) > 0 {
			lines = append(lines, "\nCategory Preferences:")
			var total float64
			for _, r := range fav.Rankings {
				total += r.GazeTime
			}
			for _, r := range fav.Rankings {
				pct := 0.0
				if total > 0 {
					pct = r.GazeTime / total * 100
				}
				lines = append(lines, fmt.Sprintf("- %s: %.1f%%", r.Category, pct))
			}
		}
	}

	if len(results.Pairs) > 0 {
		lines = append(lines, "\nImage Pair Details:")
		for i, p := range results.Pairs {
			lines = append(lines, fmt.Sprintf("\nPair %d:", i+1))
			lines = append(lines, fmt.Sprintf("- Left: %s image (%.1f%% of gaze)", orUnknown(p.LeftImage.Category), p.Gaze.Left*100))
			lines = append(lines, fmt.Sprintf("- Right: %s image (%.1f%% of gaze)", orUnknown(p.RightImage.Category), p.Gaze.Right*100))
			lines = append(lines, fmt.Sprintf("- Preferred: %s image", orUnknown(p.Gaze.Preferred)))
			lines = append(lines, fmt.Sprintf("- Dominant emotion: %s", p.Emotions.Dominant))
		}
	}

	return strings.Join(lines, "\n")
}

// #endregion summary-text

// #region helpers

type labelCount struct {
	label emotion.Label
	count int
}

// sortedCounts orders counts descending; equal counts keep the fixed label
// order so the report is reproducible.
func sortedCounts(counts map[emotion.Label]int) []labelCount {
	var out []labelCount
	for _, l := range emotion.Labels {
		if n, ok := counts[l]; ok {
			out = append(out, labelCount{l, n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].count > out[j].count })
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// #endregion helpers

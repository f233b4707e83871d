package estimator

// #region imports
import (
	"fmt"
	"image"
	"log"
	"math/rand"
	"time"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

// #endregion

// #region baseline

// baseline is the tier-1 prior. Every label starts positive so no category
// is ever impossible before blending; neutral is kept low enough that a
// real cue can overtake it.
func baseline() emotion.Scores {
	return emotion.Scores{
		emotion.Happy:    0.15,
		emotion.Sad:      0.15,
		emotion.Neutral:  0.2,
		emotion.Surprise: 0.15,
		emotion.Angry:    0.15,
		emotion.Fear:     0.1,
		emotion.Disgust:  0.1,
	}
}

// #endregion baseline

// #region estimator-struct

// Estimator derives a 7-way emotion distribution from a face observation.
// Smile and landmark backends are optional; a nil backend simply disables
// that tier. The random source drives the per-label jitter and is injected
// so tests can fix the seed.
type Estimator struct {
	smile  SmileDetector
	fitter LandmarkFitter
	rng    *rand.Rand
	now    func() time.Time
}

// New creates an Estimator. rng may be nil, in which case a wall-clock
// seeded source is used.
func New(smile SmileDetector, fitter LandmarkFitter, rng *rand.Rand) *Estimator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Estimator{smile: smile, fitter: fitter, rng: rng, now: time.Now}
}

// #endregion estimator-struct

// #region estimate

// Estimate runs the full tier pipeline and always returns a valid
// normalized sample; tier failures degrade, they never propagate.
func (e *Estimator) Estimate(obs FaceObservation) emotion.Sample {
	if obs.Crop == nil || obs.Crop.Bounds().Empty() {
		return emotion.Sample{
			Emotion:      emotion.Neutral,
			Scores:       emotion.NeutralOnly(),
			FaceDetected: false,
			Timestamp:    float64(e.now().UnixNano()) / 1e9,
			Source:       emotion.SourceLocal,
		}
	}

	scores := baseline()

	e.applySmileTier(obs, scores)
	landmarksUsed := e.applyLandmarkTier(obs, scores)
	if !landmarksUsed {
		e.applyPixelTier(obs, scores)
	}

	// Bounded jitter for naturalistic variation; iterate the fixed label
	// order so a seeded source produces the same output every run.
	for _, l := range emotion.Labels {
		jittered := scores[l] + (e.rng.Float64()*0.06 - 0.03)
		scores[l] = clampRange(jittered, 0.05, 0.95)
	}

	scores.Normalize()
	suppressNeutral(scores)

	return emotion.Sample{
		Emotion:      scores.Dominant(),
		Scores:       scores,
		FaceDetected: true,
		Timestamp:    float64(e.now().UnixNano()) / 1e9,
		Source:       emotion.SourceLocal,
	}
}

// #endregion estimate

// #region smile-tier

// applySmileTier boosts happy and dampens competing labels when the smile
// detector reports a smile pattern inside the face region.
func (e *Estimator) applySmileTier(obs FaceObservation, scores emotion.Scores) {
	if e.smile == nil {
		return
	}
	found, err := safeDetectSmile(e.smile, obs.Crop)
	if err != nil {
		log.Printf("[EST] smile tier unavailable: %v", err)
		return
	}
	if !found {
		return
	}
	scores[emotion.Happy] += 0.5
	scores[emotion.Sad] -= 0.1
	scores[emotion.Neutral] -= 0.2
	scores[emotion.Angry] -= 0.1
	for _, l := range emotion.Labels {
		if scores[l] < 0 {
			scores[l] = 0
		}
	}
}

// #endregion smile-tier

// #region landmark-tier

// applyLandmarkTier blends an aspect-ratio driven secondary distribution
// into the running scores. Landmarks dominate when present (0.2/0.8 blend).
// Returns true when the tier produced a usable result.
func (e *Estimator) applyLandmarkTier(obs FaceObservation, scores emotion.Scores) bool {
	pts := obs.Landmarks
	if pts == nil && e.fitter != nil {
		fitted, err := safeFit(e.fitter, obs.Crop, obs.Rect)
		if err != nil {
			log.Printf("[EST] landmark fit failed: %v", err)
			return false
		}
		pts = fitted
	}
	if len(pts) < 2 {
		return false
	}

	ls := e.landmarkScores(pts)
	for _, l := range emotion.Labels {
		scores[l] = scores[l]*0.2 + ls[l]*0.8
	}
	return true
}

// landmarkScores derives a distribution skewed by the face aspect ratio,
// with bounded jitter per label.
func (e *Estimator) landmarkScores(pts []image.Point) emotion.Scores {
	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	aspect := 1.0
	if h := maxY - minY; h > 0 {
		aspect = float64(maxX-minX) / float64(h)
	}

	scores := emotion.Scores{
		emotion.Happy:    floorAt(0.2+aspect*0.1+e.jitter(0.1), 0.1),
		emotion.Sad:      floorAt(0.2-aspect*0.1+e.jitter(0.1), 0.1),
		emotion.Neutral:  floorAt(0.3+e.jitter(0.1), 0.1),
		emotion.Surprise: floorAt(0.15+e.jitter(0.1), 0.1),
		emotion.Angry:    floorAt(0.15+e.jitter(0.1), 0.1),
		emotion.Fear:     floorAt(0.1+e.jitter(0.05), 0.1),
		emotion.Disgust:  floorAt(0.1+e.jitter(0.05), 0.1),
	}
	scores.Normalize()
	return scores
}

// jitter returns a uniform value in [-span, span].
func (e *Estimator) jitter(span float64) float64 {
	return e.rng.Float64()*2*span - span
}

// #endregion landmark-tier

// #region pixel-tier

// applyPixelTier maps region edge densities and brightness statistics to
// label deltas. Runs only when the landmark tier produced nothing.
func (e *Estimator) applyPixelTier(obs FaceObservation, scores emotion.Scores) {
	stats, ok := computeFaceStats(obs.Crop)
	if !ok {
		log.Printf("[EST] pixel tier skipped: crop too small")
		return
	}

	scores[emotion.Happy] += (stats.Brightness*0.3 + stats.MouthEdgeDensity*0.7) * 0.6
	scores[emotion.Surprise] += (stats.EyeEdgeDensity * 0.8) * 0.5
	scores[emotion.Sad] += ((1-stats.Brightness)*0.4 + (1-stats.MouthEdgeDensity)*0.4) * 0.4
	scores[emotion.Angry] += (stats.BrowStd / 40.0) * 0.6 * 0.4
	scores[emotion.Neutral] += (1 - stats.FaceEdgeDensity) * 0.6 * 0.3
}

// #endregion pixel-tier

// #region suppression

// suppressNeutral dampens the neutral prior when a non-neutral label comes
// out of normalization with real strength, then renormalizes.
func suppressNeutral(scores emotion.Scores) {
	top := scores.Dominant()
	if top == emotion.Neutral || scores[top] <= 0.3 {
		return
	}
	scores[emotion.Neutral] *= 0.7
	scores.Normalize()
}

// #endregion suppression

// #region tier-guards

// safeDetectSmile converts a panicking smile backend into a tier error.
func safeDetectSmile(d SmileDetector, face *image.Gray) (found bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			found = false
			err = recoveredErr{r}
		}
	}()
	return d.DetectSmile(face)
}

// safeFit converts a panicking landmark backend into a tier error.
func safeFit(f LandmarkFitter, face *image.Gray, rect image.Rectangle) (pts []image.Point, err error) {
	defer func() {
		if r := recover(); r != nil {
			pts = nil
			err = recoveredErr{r}
		}
	}()
	return f.Fit(face, rect)
}

type recoveredErr struct{ v any }

func (e recoveredErr) Error() string { return fmt.Sprintf("tier panic: %v", e.v) }

// #endregion tier-guards

// #region helpers

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorAt(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return v
}

// #endregion helpers

package estimator

import (
	"errors"
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

// #region test-helpers

func uniformCrop(size int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

type stubSmile struct {
	found bool
	err   error
	panic bool
}

func (s stubSmile) DetectSmile(*image.Gray) (bool, error) {
	if s.panic {
		panic("backend blew up")
	}
	return s.found, s.err
}

type stubFitter struct {
	pts   []image.Point
	err   error
	panic bool
}

func (f stubFitter) Fit(*image.Gray, image.Rectangle) ([]image.Point, error) {
	if f.panic {
		panic("fitter blew up")
	}
	return f.pts, f.err
}

func checkDistribution(t *testing.T, s emotion.Sample) {
	t.Helper()
	if math.Abs(s.Scores.Sum()-1) > 1e-6 {
		t.Fatalf("scores sum to %v, want 1", s.Scores.Sum())
	}
	for _, l := range emotion.Labels {
		v, ok := s.Scores[l]
		if !ok {
			t.Fatalf("label %s missing from scores", l)
		}
		if v < 0 || v > 1 {
			t.Fatalf("score %s = %v out of [0,1]", l, v)
		}
	}
	if s.Scores.Dominant() != s.Emotion {
		t.Fatalf("reported emotion %s does not match argmax %s", s.Emotion, s.Scores.Dominant())
	}
}

// #endregion test-helpers

func TestEstimateNoFace(t *testing.T) {
	e := New(nil, nil, rand.New(rand.NewSource(1)))

	for _, obs := range []FaceObservation{
		{},
		{Crop: image.NewGray(image.Rect(0, 0, 0, 0))},
	} {
		s := e.Estimate(obs)
		if s.FaceDetected {
			t.Fatal("face reported without a crop")
		}
		if s.Emotion != emotion.Neutral {
			t.Fatalf("no-face emotion = %s, want neutral", s.Emotion)
		}
		if s.Scores[emotion.Neutral] != 1 {
			t.Fatalf("no-face neutral score = %v, want 1", s.Scores[emotion.Neutral])
		}
		if s.Source != emotion.SourceLocal {
			t.Fatalf("source = %s, want local", s.Source)
		}
	}
}

func TestEstimateAlwaysValidDistribution(t *testing.T) {
	e := New(nil, nil, rand.New(rand.NewSource(7)))

	for i := 0; i < 20; i++ {
		s := e.Estimate(FaceObservation{Crop: uniformCrop(48, uint8(40+i*10))})
		if !s.FaceDetected {
			t.Fatal("face not reported for a real crop")
		}
		checkDistribution(t, s)
	}
}

func TestEstimateDeterministicWithSeed(t *testing.T) {
	obs := FaceObservation{Crop: uniformCrop(64, 120)}

	a := New(nil, nil, rand.New(rand.NewSource(42))).Estimate(obs)
	b := New(nil, nil, rand.New(rand.NewSource(42))).Estimate(obs)

	if a.Emotion != b.Emotion {
		t.Fatalf("seeded runs disagree on emotion: %s vs %s", a.Emotion, b.Emotion)
	}
	for _, l := range emotion.Labels {
		if math.Abs(a.Scores[l]-b.Scores[l]) > 1e-12 {
			t.Fatalf("seeded runs disagree on %s: %v vs %v", l, a.Scores[l], b.Scores[l])
		}
	}
}

func TestSmileTierBoostsHappy(t *testing.T) {
	obs := FaceObservation{Crop: uniformCrop(64, 120)}

	plain := New(stubSmile{found: false}, nil, rand.New(rand.NewSource(3))).Estimate(obs)
	smiling := New(stubSmile{found: true}, nil, rand.New(rand.NewSource(3))).Estimate(obs)

	if smiling.Scores[emotion.Happy] <= plain.Scores[emotion.Happy] {
		t.Fatalf("smile did not raise happy: %v <= %v",
			smiling.Scores[emotion.Happy], plain.Scores[emotion.Happy])
	}
	if smiling.Emotion != emotion.Happy {
		t.Fatalf("smiling emotion = %s, want happy", smiling.Emotion)
	}
	checkDistribution(t, smiling)
}

func TestSmileTierErrorDegrades(t *testing.T) {
	e := New(stubSmile{err: errors.New("camera gone")}, nil, rand.New(rand.NewSource(5)))
	s := e.Estimate(FaceObservation{Crop: uniformCrop(32, 90)})
	checkDistribution(t, s)
}

func TestPanickingTierIsContained(t *testing.T) {
	e := New(stubSmile{panic: true}, stubFitter{panic: true}, rand.New(rand.NewSource(9)))
	s := e.Estimate(FaceObservation{Crop: uniformCrop(32, 90)})
	if !s.FaceDetected {
		t.Fatal("face lost to a tier panic")
	}
	checkDistribution(t, s)
}

func TestLandmarkTierUsesProvidedPoints(t *testing.T) {
	// A wide landmark box pushes the aspect-driven happy base well above
	// the sad base, which survives the 0.8 blend weight and the jitter.
	wide := []image.Point{{X: 0, Y: 0}, {X: 90, Y: 30}}
	obs := FaceObservation{Crop: uniformCrop(64, 120), Landmarks: wide}

	s := New(nil, nil, rand.New(rand.NewSource(11))).Estimate(obs)
	if s.Scores[emotion.Happy] <= s.Scores[emotion.Sad] {
		t.Fatalf("wide face: happy %v not above sad %v",
			s.Scores[emotion.Happy], s.Scores[emotion.Sad])
	}
	checkDistribution(t, s)
}

func TestLandmarkFitterFailureFallsBackToPixels(t *testing.T) {
	e := New(nil, stubFitter{err: errors.New("no model")}, rand.New(rand.NewSource(13)))
	s := e.Estimate(FaceObservation{Crop: uniformCrop(64, 120)})
	checkDistribution(t, s)
}

func TestSuppressNeutral(t *testing.T) {
	scores := emotion.Scores{
		emotion.Happy:   0.45,
		emotion.Neutral: 0.35,
		emotion.Sad:     0.2,
	}
	suppressNeutral(scores)

	if math.Abs(scores.Sum()-1) > 1e-9 {
		t.Fatalf("sum after suppression = %v", scores.Sum())
	}
	if scores[emotion.Neutral] >= 0.35 {
		t.Fatalf("neutral not suppressed: %v", scores[emotion.Neutral])
	}
	if scores.Dominant() != emotion.Happy {
		t.Fatalf("dominant changed to %s", scores.Dominant())
	}
}

func TestSuppressNeutralSkipsWeakWinner(t *testing.T) {
	// Winner exactly at the 0.3 cutoff: no suppression.
	atCutoff := emotion.Scores{
		emotion.Happy:   0.3,
		emotion.Neutral: 0.3,
		emotion.Sad:     0.2,
		emotion.Angry:   0.2,
	}
	suppressNeutral(atCutoff)
	if atCutoff[emotion.Neutral] != 0.3 {
		t.Fatalf("cutoff winner triggered suppression: %v", atCutoff[emotion.Neutral])
	}

	// Neutral itself dominant: untouched.
	neutralTop := emotion.Scores{
		emotion.Happy:   0.2,
		emotion.Neutral: 0.6,
		emotion.Sad:     0.2,
	}
	suppressNeutral(neutralTop)
	if neutralTop[emotion.Neutral] != 0.6 {
		t.Fatalf("neutral-dominant scores were modified: %v", neutralTop[emotion.Neutral])
	}
}

func TestClampRange(t *testing.T) {
	cases := []struct{ in, lo, hi, want float64 }{
		{0.5, 0.05, 0.95, 0.5},
		{-0.1, 0.05, 0.95, 0.05},
		{1.2, 0.05, 0.95, 0.95},
	}
	for _, c := range cases {
		if got := clampRange(c.in, c.lo, c.hi); got != c.want {
			t.Errorf("clampRange(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

package detector

// #region imports
import (
	"image"
	"math/rand"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/estimator"
)

// #endregion

// #region synthetic-source

// SyntheticSource is a stand-in face source for runs without a camera
// integration. It generates procedural face crops whose brightness and
// texture drift over time so the estimator produces varied output.
type SyntheticSource struct {
	rng  *rand.Rand
	tick int
}

// NewSyntheticSource creates a synthetic source driven by rng.
func NewSyntheticSource(rng *rand.Rand) *SyntheticSource {
	return &SyntheticSource{rng: rng}
}

// CaptureFace returns a generated face crop. Roughly one tick in twelve
// reports no face, exercising the no-face path downstream.
func (s *SyntheticSource) CaptureFace() (estimator.FaceObservation, error) {
	s.tick++
	if s.rng.Intn(12) == 0 {
		return estimator.FaceObservation{}, nil
	}

	const size = 96
	crop := image.NewGray(image.Rect(0, 0, size, size))

	base := 70 + s.rng.Intn(110)
	noise := 10 + s.rng.Intn(50)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := base + s.rng.Intn(noise) - noise/2
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			crop.Pix[y*crop.Stride+x] = uint8(v)
		}
	}

	return estimator.FaceObservation{
		Crop: crop,
		Rect: image.Rect(0, 0, size, size),
	}, nil
}

// #endregion synthetic-source

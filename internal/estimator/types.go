package estimator

import "image"

// #region observation

// FaceObservation bundles everything captured for one sampling tick.
// A nil Crop means no face was visible this tick.
type FaceObservation struct {
	Crop      *image.Gray     // grayscale face region
	Rect      image.Rectangle // face bounds within the source frame
	Landmarks []image.Point   // optional pre-fit landmarks; nil = not fitted
}

// #endregion observation

// #region detector-interfaces

// SmileDetector abstracts the secondary smile-region detector so the
// smile-cue tier can run against any backend (or be absent entirely).
type SmileDetector interface {
	DetectSmile(face *image.Gray) (bool, error)
}

// LandmarkFitter abstracts the facial landmark model. Fit returns the
// fitted points, or an error when the model cannot converge on the face.
type LandmarkFitter interface {
	Fit(face *image.Gray, rect image.Rectangle) ([]image.Point, error)
}

// #endregion detector-interfaces

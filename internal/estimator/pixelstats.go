package estimator

import (
	"image"
	"math"
)

// #region canonical-size

// The face crop is resampled to a fixed canonical resolution before any
// region statistics are taken, so the row bands below mean the same thing
// for every input size.
const (
	canonicalSize = 64

	eyeRowStart   = 5
	eyeRowEnd     = 25
	browRowStart  = 5
	browRowEnd    = 20
	mouthRowStart = 40
	mouthRowEnd   = 60
)

// edgeThreshold is the gradient magnitude above which a pixel counts as an
// edge. Chosen to track the hysteresis band the original detector used.
const edgeThreshold = 100.0

// #endregion canonical-size

// #region face-stats

// faceStats holds the pixel statistics feeding the fallback tier.
type faceStats struct {
	EyeEdgeDensity   float64 // fraction of edge pixels in the eye band
	MouthEdgeDensity float64 // fraction of edge pixels in the mouth band
	FaceEdgeDensity  float64 // fraction of edge pixels across the whole face
	BrowStd          float64 // intensity std-dev in the brow band
	Brightness       float64 // whole-face mean intensity, 0..1
	Contrast         float64 // whole-face std-dev scaled to 0..1
}

// computeFaceStats resizes the crop to the canonical resolution and derives
// region statistics. Returns ok=false when the crop is too small to resize.
func computeFaceStats(crop *image.Gray) (faceStats, bool) {
	b := crop.Bounds()
	if b.Dx() < 2 || b.Dy() < 2 {
		return faceStats{}, false
	}

	face := resizeGray(crop, canonicalSize, canonicalSize)

	mean, std := meanStd(face, 0, canonicalSize)
	_, browStd := meanStd(face, browRowStart, browRowEnd)

	return faceStats{
		EyeEdgeDensity:   edgeDensity(face, eyeRowStart, eyeRowEnd),
		MouthEdgeDensity: edgeDensity(face, mouthRowStart, mouthRowEnd),
		FaceEdgeDensity:  edgeDensity(face, 0, canonicalSize),
		BrowStd:          browStd,
		Brightness:       mean / 255.0,
		Contrast:         math.Min(std/80.0, 1.0),
	}, true
}

// #endregion face-stats

// #region resize

// resizeGray nearest-neighbor resamples src to w×h.
func resizeGray(src *image.Gray, w, h int) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := b.Min.Y + y*b.Dy()/h
		for x := 0; x < w; x++ {
			sx := b.Min.X + x*b.Dx()/w
			dst.SetGray(x, y, src.GrayAt(sx, sy))
		}
	}
	return dst
}

// #endregion resize

// #region edge-density

// edgeDensity returns the fraction of pixels in rows [y0,y1) whose Sobel
// gradient magnitude exceeds edgeThreshold. Border pixels count as
// non-edge. The face must already be canonical-sized.
func edgeDensity(face *image.Gray, y0, y1 int) float64 {
	edges := 0
	total := 0
	for y := y0; y < y1; y++ {
		for x := 0; x < canonicalSize; x++ {
			total++
			if x == 0 || y == 0 || x == canonicalSize-1 || y == canonicalSize-1 {
				continue
			}
			if sobelMagnitude(face, x, y) > edgeThreshold {
				edges++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(edges) / float64(total)
}

func sobelMagnitude(img *image.Gray, x, y int) float64 {
	px := func(dx, dy int) float64 {
		return float64(img.GrayAt(x+dx, y+dy).Y)
	}
	gx := -px(-1, -1) - 2*px(-1, 0) - px(-1, 1) +
		px(1, -1) + 2*px(1, 0) + px(1, 1)
	gy := -px(-1, -1) - 2*px(0, -1) - px(1, -1) +
		px(-1, 1) + 2*px(0, 1) + px(1, 1)
	return math.Hypot(gx, gy)
}

// #endregion edge-density

// #region mean-std

// meanStd computes intensity mean and standard deviation over rows [y0,y1)
// of a canonical-sized face.
func meanStd(face *image.Gray, y0, y1 int) (mean, std float64) {
	var sum float64
	n := 0
	for y := y0; y < y1; y++ {
		for x := 0; x < canonicalSize; x++ {
			sum += float64(face.GrayAt(x, y).Y)
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)

	var variance float64
	for y := y0; y < y1; y++ {
		for x := 0; x < canonicalSize; x++ {
			d := float64(face.GrayAt(x, y).Y) - mean
			variance += d * d
		}
	}
	return mean, math.Sqrt(variance / float64(n))
}

// #endregion mean-std

package detector

// #region imports
import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/estimator"
)

// #endregion

// #region face-source

// FaceSource yields the current face observation from the capture device.
// A nil crop in the observation means no face is visible right now.
type FaceSource interface {
	CaptureFace() (estimator.FaceObservation, error)
}

// #endregion face-source

// #region worker

// Worker runs the estimator on a fixed cadence, owns the latest sample,
// and fans new samples out to a bounded subscriber channel.
type Worker struct {
	src      FaceSource
	est      *estimator.Estimator
	interval time.Duration

	mu      sync.Mutex
	current emotion.Sample

	samples chan emotion.Sample
}

const channelDepth = 64

// NewWorker creates a detection worker. interval is the minimum time
// between estimation ticks.
func NewWorker(src FaceSource, est *estimator.Estimator, interval time.Duration) *Worker {
	return &Worker{
		src:      src,
		est:      est,
		interval: interval,
		current:  initialSample(),
		samples:  make(chan emotion.Sample, channelDepth),
	}
}

// initialSample is the pre-first-tick state: mostly neutral, no face yet.
func initialSample() emotion.Sample {
	return emotion.Sample{
		Emotion: emotion.Neutral,
		Scores: emotion.Scores{
			emotion.Angry:    0,
			emotion.Disgust:  0,
			emotion.Fear:     0,
			emotion.Happy:    0.1,
			emotion.Sad:      0,
			emotion.Surprise: 0,
			emotion.Neutral:  0.9,
		},
		FaceDetected: false,
		Timestamp:    float64(time.Now().UnixNano()) / 1e9,
		Source:       emotion.SourceLocal,
	}
}

// #endregion worker

// #region accessors

// Samples returns the sample stream for the downstream consumer.
func (w *Worker) Samples() <-chan emotion.Sample { return w.samples }

// Current returns a copy of the latest sample.
func (w *Worker) Current() emotion.Sample {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current.Clone()
}

// #endregion accessors

// #region run

// Run ticks until the context is cancelled. Capture failures are logged
// and skipped; the previous sample stays current.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("[DETECT] worker started (interval %s)", w.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[DETECT] worker stopped")
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

// tick runs one capture+estimate cycle.
func (w *Worker) tick() {
	obs, err := w.src.CaptureFace()
	if err != nil {
		log.Printf("[DETECT] capture failed: %v", err)
		return
	}

	sample := w.est.Estimate(obs)

	w.mu.Lock()
	w.current = sample
	w.mu.Unlock()

	select {
	case w.samples <- sample.Clone():
	default:
		select {
		case <-w.samples:
		default:
		}
		select {
		case w.samples <- sample.Clone():
		default:
		}
	}
}

// #endregion run

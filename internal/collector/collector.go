package collector

// #region imports
import (
	"log"
	"sync"
	"time"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

// #endregion

// #region collector-struct

// Collector owns the currently-open pair and the closed-pair history.
// Gaze and emotion producers run on independent goroutines, so every
// mutating operation is serialized behind the mutex; AnalyzeSession takes
// the same lock to observe a consistent snapshot.
type Collector struct {
	mu      sync.Mutex
	open    *Pair
	history []Pair
	now     func() time.Time
}

// New creates a Collector using the wall clock.
func New() *Collector {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Collector with an injected clock for tests and
// replay.
func NewWithClock(now func() time.Time) *Collector {
	return &Collector{now: now}
}

func (c *Collector) nowSeconds() float64 {
	return float64(c.now().UnixNano()) / 1e9
}

// #endregion collector-struct

// #region begin-pair

// BeginPair opens a new trial. An already-open pair is closed first, so
// exactly one pair is mutable at any time.
func (c *Collector) BeginPair(pairID int, left, right ImageRef) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open != nil {
		c.closeOpenLocked()
	}

	c.open = &Pair{
		PairID:     pairID,
		LeftImage:  left,
		RightImage: right,
		StartTime:  c.nowSeconds(),
	}
	log.Printf("[COLLECT] started pair %d (%s | %s)", pairID, left.Category, right.Category)
}

// #endregion begin-pair

// #region add-samples

// AddGazeSample appends a copy of the sample to the open pair. Ignored
// when no pair is open: there is nothing to attach it to.
func (c *Collector) AddGazeSample(s emotion.GazeSample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open == nil {
		return
	}
	if s.Timestamp == 0 {
		s.Timestamp = c.nowSeconds()
	}
	c.open.GazeSamples = append(c.open.GazeSamples, s)
}

// AddEmotionSample appends a deep copy of the sample to the open pair.
// Ignored when no pair is open.
func (c *Collector) AddEmotionSample(s emotion.Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open == nil {
		return
	}
	if s.Timestamp == 0 {
		s.Timestamp = c.nowSeconds()
	}
	c.open.EmotionSamples = append(c.open.EmotionSamples, s.Clone())
}

// #endregion add-samples

// #region end-pair

// EndPair closes the open pair and moves it into history. No-op when no
// pair is open.
func (c *Collector) EndPair() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open == nil {
		return
	}
	c.closeOpenLocked()
}

// closeOpenLocked stamps the end time and appends the pair to history.
// Caller holds the mutex.
func (c *Collector) closeOpenLocked() {
	c.open.EndTime = c.nowSeconds()
	c.history = append(c.history, *c.open)
	log.Printf("[COLLECT] ended pair %d (%d gaze, %d emotion samples)",
		c.open.PairID, len(c.open.GazeSamples), len(c.open.EmotionSamples))
	c.open = nil
}

// #endregion end-pair

// #region history

// History returns a deep copy of the closed-pair history.
func (c *Collector) History() []Pair {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Pair, len(c.history))
	for i, p := range c.history {
		out[i] = p.clone()
	}
	return out
}

// #endregion history

// #region analyze-session

// AnalyzeSession computes the full derived view over closed pairs. The
// zero-value result marks an empty session.
func (c *Collector) AnalyzeSession() SessionResults {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		log.Printf("[COLLECT] no session data to analyze")
		return SessionResults{}
	}

	overall := overallEmotions(c.history)
	ranking := favoriteCategories(c.history)

	results := SessionResults{
		OverallEmotions:    &overall,
		FavoriteCategories: &ranking,
		SessionDuration:    sessionDuration(c.history),
	}
	for _, p := range c.history {
		results.Pairs = append(results.Pairs, analyzePair(p))
	}
	return results
}

// #endregion analyze-session

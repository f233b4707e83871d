package replay

// #region imports
import (
	"fmt"
	"sync"
	"time"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
)

// #endregion

// #region script-clock

// scriptClock is a settable clock so recorded timestamps drive the
// collector instead of the wall clock.
type scriptClock struct {
	mu sync.Mutex
	t  float64
}

func (c *scriptClock) set(seconds float64) {
	c.mu.Lock()
	c.t = seconds
	c.mu.Unlock()
}

func (c *scriptClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Unix(0, int64(c.t*1e9))
}

// #endregion script-clock

// #region replay

// Replay feeds recorded pairs through a fresh collector, entirely
// in-memory, and returns the analysis. Sample timestamps from the fixture
// are preserved; pair open/close times come from the recorded start/end.
func Replay(f *Fixture) collector.SessionResults {
	clock := &scriptClock{}
	col := collector.NewWithClock(clock.now)

	for _, p := range f.Pairs {
		clock.set(p.StartTime)
		col.BeginPair(p.PairID, p.LeftImage, p.RightImage)
		for _, g := range p.GazeSamples {
			col.AddGazeSample(g)
		}
		for _, e := range p.EmotionSamples {
			col.AddEmotionSample(e)
		}
		clock.set(p.EndTime)
		col.EndPair()
	}

	return col.AnalyzeSession()
}

// #endregion replay

// #region check

// Mismatch reports one divergence between replayed and expected analysis.
type Mismatch struct {
	PairID int
	Field  string
	Got    string
	Want   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("pair %d %s: got %q, want %q", m.PairID, m.Field, m.Got, m.Want)
}

// Check compares the replayed analysis against the fixture's expected
// per-pair heads.
func Check(results collector.SessionResults, expected []ExpectedPair) []Mismatch {
	byID := make(map[int]collector.PairAnalysis, len(results.Pairs))
	for _, p := range results.Pairs {
		byID[p.PairID] = p
	}

	var mismatches []Mismatch
	for _, want := range expected {
		got, ok := byID[want.PairID]
		if !ok {
			mismatches = append(mismatches, Mismatch{want.PairID, "pair", "missing", "present"})
			continue
		}
		if got.Gaze.Preferred != want.Preferred {
			mismatches = append(mismatches, Mismatch{want.PairID, "preferred", got.Gaze.Preferred, want.Preferred})
		}
		if got.Emotions.Dominant != want.Dominant {
			mismatches = append(mismatches, Mismatch{want.PairID, "dominant", string(got.Emotions.Dominant), string(want.Dominant)})
		}
	}
	return mismatches
}

// Summary aggregates a replay run.
type Summary struct {
	TotalPairs int
	Checked    int
	Mismatches int
}

// Summarize computes aggregate stats for a replay run.
func Summarize(f *Fixture, results collector.SessionResults, mismatches []Mismatch) Summary {
	return Summary{
		TotalPairs: len(results.Pairs),
		Checked:    len(f.ExpectedResults),
		Mismatches: len(mismatches),
	}
}

// #endregion check

package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/imageset"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/store"
)

// #region test-helpers

func testPairs(n int) []imageset.PairImages {
	pairs := make([]imageset.PairImages, n)
	for i := range pairs {
		pairs[i] = imageset.PairImages{
			Left:  collector.ImageRef{Path: "l.png", Category: "happy"},
			Right: collector.ImageRef{Path: "r.png", Category: "sad"},
		}
	}
	return pairs
}

// feed pushes samples into the channels for as long as the context lives.
func feed(ctx context.Context, gaze chan<- emotion.GazeSample, emo chan<- emotion.Sample) {
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case gaze <- emotion.GazeSample{GazeX: 0.2, Timestamp: 1}:
			default:
			}
			select {
			case emo <- emotion.Sample{Emotion: emotion.Happy, Scores: emotion.Scores{emotion.Happy: 1}, Timestamp: 1}:
			default:
			}
		}
	}
}

// #endregion test-helpers

func TestRunnerCompletesAllPairs(t *testing.T) {
	gazeCh := make(chan emotion.GazeSample, 16)
	emoCh := make(chan emotion.Sample, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed(ctx, gazeCh, emoCh)

	coll := collector.New()
	r := NewRunner(Config{
		Collector: coll,
		Pairs:     testPairs(3),
		Gaze:      gazeCh,
		Emotions:  []<-chan emotion.Sample{emoCh},
		Display:   30 * time.Millisecond,
	})

	results, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results.Pairs) != 3 {
		t.Fatalf("pairs analyzed = %d, want 3", len(results.Pairs))
	}
	for _, p := range results.Pairs {
		if p.Duration <= 0 {
			t.Errorf("pair %d duration = %v", p.PairID, p.Duration)
		}
	}
	if r.SessionID() == "" {
		t.Error("empty session ID")
	}
}

func TestRunnerCancelLeavesOpenPairOut(t *testing.T) {
	gazeCh := make(chan emotion.GazeSample, 16)

	ctx, cancel := context.WithCancel(context.Background())
	coll := collector.New()
	r := NewRunner(Config{
		Collector: coll,
		Pairs:     testPairs(5),
		Gaze:      gazeCh,
		Display:   50 * time.Millisecond,
	})

	done := make(chan struct{})
	var results collector.SessionResults
	var runErr error
	go func() {
		results, runErr = r.Run(ctx)
		close(done)
	}()

	// Let the first pair finish, then interrupt during the second.
	time.Sleep(70 * time.Millisecond)
	cancel()
	<-done

	if runErr != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", runErr)
	}
	// Only explicitly ended pairs count.
	if len(results.Pairs) >= 5 {
		t.Fatalf("interrupted run analyzed %d pairs", len(results.Pairs))
	}
	for _, p := range results.Pairs {
		if p.Duration <= 0 {
			t.Errorf("pair %d not properly closed", p.PairID)
		}
	}
}

func TestRunnerExportsAndArchives(t *testing.T) {
	dir := t.TempDir()
	archive, err := store.NewStore(filepath.Join(dir, "sessions.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()

	gazeCh := make(chan emotion.GazeSample, 16)
	emoCh := make(chan emotion.Sample, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed(ctx, gazeCh, emoCh)

	resultPath := filepath.Join(dir, "results.json")
	coll := collector.New()
	r := NewRunner(Config{
		Collector:  coll,
		Pairs:      testPairs(2),
		Gaze:       gazeCh,
		Emotions:   []<-chan emotion.Sample{emoCh},
		Display:    30 * time.Millisecond,
		ResultPath: resultPath,
		Archive:    archive,
	})

	results, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Result file round-trips.
	loaded, err := collector.LoadResults(resultPath)
	if err != nil {
		t.Fatalf("load results: %v", err)
	}
	if len(loaded.Pairs) != len(results.Pairs) {
		t.Errorf("exported %d pairs, ran %d", len(loaded.Pairs), len(results.Pairs))
	}

	// Archived record carries the history and summary.
	rec, err := archive.GetSession(r.SessionID())
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(rec.History) != 2 {
		t.Errorf("archived history = %d pairs", len(rec.History))
	}
	if rec.Summary == "" {
		t.Error("archived summary empty")
	}

	// Event log covers the pair lifecycle plus the save.
	events, err := archive.Events(r.SessionID())
	if err != nil {
		t.Fatal(err)
	}
	types := make(map[string]int)
	for _, e := range events {
		types[e.EventType]++
	}
	if types["pair_started"] != 2 || types["pair_ended"] != 2 || types["session_saved"] != 1 {
		t.Fatalf("event counts = %v", types)
	}
}

func TestRunnerNoPairs(t *testing.T) {
	coll := collector.New()
	r := NewRunner(Config{Collector: coll, Display: time.Millisecond})

	results, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !results.Empty() {
		t.Fatalf("empty deck produced results: %+v", results)
	}
}

package collector

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	c := NewWithClock(newStepClock().now)
	c.BeginPair(1, ImageRef{Path: "a.png", Category: "happy", Filename: "a.png"},
		ImageRef{Path: "b.png", Category: "sad", Filename: "b.png"})
	c.AddGazeSample(gazeAt(0.2))
	c.AddGazeSample(gazeAt(0.8))
	c.AddEmotionSample(emotionOf(emotion.Happy))
	c.EndPair()
	results := c.AnalyzeSession()

	path := filepath.Join(t.TempDir(), "results.json")
	if err := SaveResults(results, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadResults(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(results, loaded) {
		t.Fatalf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", results, loaded)
	}
}

func TestSaveResultsUnwritablePath(t *testing.T) {
	err := SaveResults(SessionResults{}, filepath.Join(t.TempDir(), "missing", "results.json"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadResultsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadResults(path); err == nil {
		t.Fatal("expected parse error")
	}
}

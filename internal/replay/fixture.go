package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a recorded-session fixture.
// Pairs reuse the collector's wire form, so an archived session history
// can be replayed unchanged.
type Fixture struct {
	Description     string           `json:"description"`
	Pairs           []collector.Pair `json:"pairs"`
	ExpectedResults []ExpectedPair   `json:"expected_results,omitempty"`
}

// ExpectedPair captures the expected per-pair analysis heads.
type ExpectedPair struct {
	PairID    int           `json:"pair_id"`
	Preferred string        `json:"preferred"`
	Dominant  emotion.Label `json:"dominant"`
}

// #endregion fixture-types

// #region fixture-io

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(f *Fixture, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-io

package collector

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// #region save

// SaveResults writes results as indented JSON to path. Failure is logged
// and returned to the caller; it never aborts the session.
func SaveResults(results SessionResults, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("[COLLECT] error saving results: %v", err)
		return fmt.Errorf("write results %s: %w", path, err)
	}
	log.Printf("[COLLECT] results saved to %s", path)
	return nil
}

// #endregion save

// #region load

// LoadResults reads a previously saved results file.
func LoadResults(path string) (SessionResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SessionResults{}, fmt.Errorf("read results %s: %w", path, err)
	}
	var results SessionResults
	if err := json.Unmarshal(data, &results); err != nil {
		return SessionResults{}, fmt.Errorf("parse results %s: %w", path, err)
	}
	return results, nil
}

// #endregion load

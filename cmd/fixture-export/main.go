package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/replay"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to tracker_sessions.db")
	sessionID := flag.String("session", "", "session to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	expect := flag.Bool("expect", true, "embed the archived analysis as expectations")
	flag.Parse()

	if *dbPath == "" || *sessionID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --session id --out path/to/fixture.json [--expect=false]")
		os.Exit(2)
	}

	if err := run(*dbPath, *sessionID, *outPath, *expect); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath, sessionID, outPath string, expect bool) error {
	archive, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer archive.Close()

	rec, err := archive.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if len(rec.History) == 0 {
		return fmt.Errorf("session %s has no recorded pairs", sessionID)
	}

	fixture := &replay.Fixture{
		Description: fmt.Sprintf("exported from session %s", sessionID),
		Pairs:       rec.History,
	}

	// Expectations come from the analysis archived with the session, so a
	// later replay detects drift in the analysis itself.
	if expect {
		for _, p := range rec.Results.Pairs {
			fixture.ExpectedResults = append(fixture.ExpectedResults, replay.ExpectedPair{
				PairID:    p.PairID,
				Preferred: p.Gaze.Preferred,
				Dominant:  p.Emotions.Dominant,
			})
		}
	}

	if err := replay.SaveFixture(fixture, outPath); err != nil {
		return err
	}

	fmt.Printf("Exported %d pairs", len(fixture.Pairs))
	if expect {
		fmt.Printf(" with %d expectations", len(fixture.ExpectedResults))
	}
	fmt.Printf(" to %s\n", outPath)
	return nil
}

// #endregion export

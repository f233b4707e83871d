package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to tracker_sessions.db")
	last := flag.Int("last", 20, "show N most recent sessions")
	session := flag.String("session", "", "show single session detail")
	events := flag.Bool("events", false, "include the event log in detail mode")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/tracker_sessions.db [--last N] [--session id] [--events] [--json]")
		os.Exit(2)
	}

	archive, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer archive.Close()

	if *session != "" {
		err = runDetailMode(archive, *session, *events, *jsonOut)
	} else {
		err = runListMode(archive, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(archive *store.Store, last int, jsonOut bool) error {
	sessions, err := archive.ListSessions(last)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions recorded")
		return nil
	}

	fmt.Printf("%-38s %-26s %10s %7s\n", "SESSION", "STARTED", "DURATION", "PAIRS")
	fmt.Println(strings.Repeat("-", 84))
	for _, s := range sessions {
		fmt.Printf("%-38s %-26s %9.1fs %7d\n", s.SessionID, s.StartedAt.Format(time.RFC3339), s.Duration, s.PairCount)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(archive *store.Store, sessionID string, withEvents, jsonOut bool) error {
	rec, err := archive.GetSession(sessionID)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rec)
	}

	fmt.Printf("Session %s\n", rec.SessionID)
	fmt.Printf("Started: %s  Ended: %s\n", rec.StartedAt.Format(time.RFC3339), rec.EndedAt.Format(time.RFC3339))
	fmt.Println()
	if rec.Summary != "" {
		fmt.Println(rec.Summary)
	} else {
		fmt.Println(collector.SummaryText(rec.Results))
	}

	if withEvents {
		entries, err := archive.Events(sessionID)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println("Events:")
		for _, e := range entries {
			ts := e.CreatedAt.Format(time.RFC3339)
			if e.DetailJSON != "" {
				fmt.Printf("  %s  %-16s %s\n", ts, e.EventType, e.DetailJSON)
			} else {
				fmt.Printf("  %s  %s\n", ts, e.EventType)
			}
		}
	}
	return nil
}

// #endregion detail-mode

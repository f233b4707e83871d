package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	summaryOut := flag.Bool("summary", false, "print the session summary text")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--summary]")
		os.Exit(2)
	}

	os.Exit(run(*fixturePath, *summaryOut))
}

// #endregion main

// #region run

func run(fixturePath string, printSummary bool) int {
	fixture, err := replay.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 1
	}

	if fixture.Description != "" {
		fmt.Printf("Fixture: %s\n", fixture.Description)
	}
	fmt.Printf("Replaying %d pairs...\n", len(fixture.Pairs))

	results := replay.Replay(fixture)

	if printSummary {
		fmt.Println()
		fmt.Println(collector.SummaryText(results))
		fmt.Println()
	}

	if len(fixture.ExpectedResults) == 0 {
		fmt.Println("No expectations in fixture; nothing to check.")
		return 0
	}

	mismatches := replay.Check(results, fixture.ExpectedResults)
	summary := replay.Summarize(fixture, results, mismatches)
	fmt.Printf("Checked %d of %d pairs\n", summary.Checked, summary.TotalPairs)

	if summary.Mismatches == 0 {
		fmt.Println("PASS: all expectations matched")
		return 0
	}

	for _, m := range mismatches {
		fmt.Printf("MISMATCH %s\n", m.String())
	}
	fmt.Printf("FAIL: %d mismatches\n", summary.Mismatches)
	return 1
}

// #endregion run

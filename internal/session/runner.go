package session

// #region imports
import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/imageset"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/store"
)

// #endregion

// #region config

// Config wires a Runner. Archive and ResultPath are optional; Gaze and
// Emotions may be nil when a source is unavailable.
type Config struct {
	Collector  *collector.Collector
	Pairs      []imageset.PairImages
	Gaze       <-chan emotion.GazeSample
	Emotions   []<-chan emotion.Sample
	Display    time.Duration // viewing window per pair
	ResultPath string
	Archive    *store.Store
}

// #endregion config

// #region runner

// Runner drives the pair lifecycle: it opens one trial at a time against
// the collector, drains the sample streams into it while the trial is on
// screen, and produces the final analysis when the deck is exhausted.
type Runner struct {
	cfg       Config
	sessionID string
}

// NewRunner creates a Runner with a fresh session ID.
func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg, sessionID: uuid.New().String()}
}

// SessionID returns the ID assigned to this run.
func (r *Runner) SessionID() string { return r.sessionID }

// #endregion runner

// #region run

// Run executes every trial and returns the session analysis. On context
// cancellation the sources stop and the currently-open pair is left open;
// only explicitly ended pairs enter the results.
func (r *Runner) Run(ctx context.Context) (collector.SessionResults, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	startedAt := time.Now()
	log.Printf("[SESSION] %s starting with %d pairs", r.sessionID, len(r.cfg.Pairs))

	go r.drain(runCtx)

	for i, p := range r.cfg.Pairs {
		pairID := i + 1
		r.cfg.Collector.BeginPair(pairID, p.Left, p.Right)
		r.logEvent("pair_started", pairID)

		select {
		case <-ctx.Done():
			// Stop producing; the open pair is deliberately not closed.
			log.Printf("[SESSION] interrupted during pair %d", pairID)
			return r.cfg.Collector.AnalyzeSession(), ctx.Err()
		case <-time.After(r.cfg.Display):
		}

		r.cfg.Collector.EndPair()
		r.logEvent("pair_ended", pairID)
	}

	results := r.cfg.Collector.AnalyzeSession()
	r.finish(results, startedAt)
	return results, nil
}

// finish exports and archives the analysis. Failures are reported, never
// fatal.
func (r *Runner) finish(results collector.SessionResults, startedAt time.Time) {
	summary := collector.SummaryText(results)

	if r.cfg.ResultPath != "" {
		if err := collector.SaveResults(results, r.cfg.ResultPath); err != nil {
			log.Printf("[SESSION] result export failed: %v", err)
		}
	}

	if r.cfg.Archive != nil {
		rec := store.SessionRecord{
			SessionID: r.sessionID,
			StartedAt: startedAt,
			EndedAt:   time.Now(),
			Duration:  results.SessionDuration,
			Results:   results,
			History:   r.cfg.Collector.History(),
			Summary:   summary,
		}
		if err := r.cfg.Archive.SaveSession(rec); err != nil {
			log.Printf("[SESSION] archive failed: %v", err)
		} else {
			r.logEvent("session_saved", 0)
		}
	}
}

// #endregion run

// #region drain

// drain moves samples from the sources into the collector until cancelled.
// The collector ignores samples arriving while no pair is open.
func (r *Runner) drain(ctx context.Context) {
	// Merge the emotion sources into one channel so the select below stays
	// fixed-shape regardless of how many sources are wired.
	merged := make(chan emotion.Sample, 64)
	for _, src := range r.cfg.Emotions {
		if src == nil {
			continue
		}
		go func(src <-chan emotion.Sample) {
			for {
				select {
				case <-ctx.Done():
					return
				case s, ok := <-src:
					if !ok {
						return
					}
					select {
					case merged <- s:
					case <-ctx.Done():
						return
					}
				}
			}
		}(src)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case g, ok := <-r.cfg.Gaze:
			if !ok {
				r.cfg.Gaze = nil
				continue
			}
			r.cfg.Collector.AddGazeSample(g)
		case e := <-merged:
			r.cfg.Collector.AddEmotionSample(e)
		}
	}
}

// #endregion drain

// #region events

func (r *Runner) logEvent(eventType string, pairID int) {
	if r.cfg.Archive == nil {
		return
	}
	detail := ""
	if pairID > 0 {
		detail = fmt.Sprintf(`{"pair_id":%d}`, pairID)
	}
	if err := r.cfg.Archive.LogEvent(store.EventEntry{
		SessionID:  r.sessionID,
		EventType:  eventType,
		DetailJSON: detail,
	}); err != nil {
		log.Printf("[SESSION] event log failed: %v", err)
	}
}

// #endregion events

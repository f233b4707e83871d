package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/bridge"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/config"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/detector"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/estimator"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/gazesource"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/imageset"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/session"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/store"
)

// #region main

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	archive, err := store.NewStore(cfg.Output.DBPath)
	if err != nil {
		log.Fatalf("failed to open archive: %v", err)
	}
	defer archive.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	deck, err := imageset.Load(cfg.Images.Dir, cfg.Images.Categories, rng)
	if err != nil {
		log.Fatalf("failed to load image set: %v", err)
	}

	coll := collector.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// External gaze tracker. The session proceeds without it when the
	// connection cannot be established.
	gazeClient := gazesource.NewClient(cfg.Gaze.Addr(), cfg.Gaze.AppKey)
	go func() {
		if err := gazeClient.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[MAIN] gaze source stopped: %v", err)
		}
	}()

	emotionCh := []<-chan emotion.Sample{gazeClient.Emotions()}

	// Local detector worker, when a face source is configured.
	var worker *detector.Worker
	if cfg.Detection.Source == "synthetic" {
		est := estimator.New(nil, nil, rng)
		worker = detector.NewWorker(detector.NewSyntheticSource(rng), est, cfg.Detection.Interval())
		go worker.Run(ctx)
		emotionCh = append(emotionCh, worker.Samples())
	}

	// Live-data bridge for external dashboards.
	var emotionProvider bridge.EmotionProvider
	if worker != nil {
		emotionProvider = worker
	}
	srv := bridge.NewServer(emotionProvider, gazeClient, coll)
	httpServer := &http.Server{Addr: cfg.Bridge.Addr, Handler: srv.Handler()}
	go func() {
		log.Printf("[MAIN] bridge listening on %s", cfg.Bridge.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[MAIN] bridge: %v", err)
		}
	}()
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutCtx)
	}()

	runner := session.NewRunner(session.Config{
		Collector:  coll,
		Pairs:      deck.Pairs(),
		Gaze:       gazeClient.Gaze(),
		Emotions:   emotionCh,
		Display:    cfg.Session.Display(),
		ResultPath: cfg.Output.ResultPath,
		Archive:    archive,
	})

	fmt.Printf("Emotion tracking session: %d pairs, %s per pair\n", len(deck.Pairs()), cfg.Session.Display())

	results, err := runner.Run(ctx)
	if err != nil {
		log.Printf("[MAIN] session interrupted: %v", err)
	}

	fmt.Println()
	fmt.Println(collector.SummaryText(results))
}

// #endregion main

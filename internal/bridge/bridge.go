package bridge

// #region imports
import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

// #endregion

// #region types

// EmotionProvider exposes the latest local emotion sample.
type EmotionProvider interface {
	Current() emotion.Sample
}

// GazeProvider exposes the latest gaze sample and connection state.
type GazeProvider interface {
	Current() emotion.GazeSample
	Connected() bool
}

// ResultsProvider exposes the running session analysis.
type ResultsProvider interface {
	AnalyzeSession() collector.SessionResults
}

// Server serves live tracker state over HTTP for external dashboards.
type Server struct {
	emotions EmotionProvider
	gaze     GazeProvider
	results  ResultsProvider
	now      func() time.Time
}

// #endregion types

// #region construction

// NewServer wires the providers into a bridge. Any provider may be nil;
// the corresponding fields are omitted from responses.
func NewServer(emotions EmotionProvider, gaze GazeProvider, results ResultsProvider) *Server {
	return &Server{
		emotions: emotions,
		gaze:     gaze,
		results:  results,
		now:      time.Now,
	}
}

// Handler builds the routed, request-logged HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/live", s.handleLive).Methods(http.MethodGet)
	r.HandleFunc("/api/results", s.handleResults).Methods(http.MethodGet)
	r.HandleFunc("/api/command", s.handleCommand).Methods(http.MethodPost)
	return handlers.LoggingHandler(os.Stdout, r)
}

// #endregion construction

// #region handlers

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

// liveState is the combined snapshot served to dashboards.
type liveState struct {
	Emotion       emotion.Label       `json:"emotion,omitempty"`
	Confidence    int                 `json:"confidence"`
	FaceDetected  bool                `json:"face_detected"`
	Source        emotion.Source      `json:"source,omitempty"`
	Gaze          *emotion.GazeSample `json:"gaze,omitempty"`
	GazeConnected bool                `json:"gaze_connected"`
	Timestamp     float64             `json:"timestamp"`
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	state := liveState{
		Timestamp: float64(s.now().UnixNano()) / 1e9,
	}
	if s.emotions != nil {
		sample := s.emotions.Current()
		state.Emotion = sample.Emotion
		state.FaceDetected = sample.FaceDetected
		state.Source = sample.Source
		state.Confidence = int(sample.Scores[sample.Emotion] * 100)
	}
	if s.gaze != nil {
		g := s.gaze.Current()
		state.Gaze = &g
		state.GazeConnected = s.gaze.Connected()
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleResults(w http.ResponseWriter, _ *http.Request) {
	if s.results == nil {
		writeJSON(w, http.StatusOK, collector.SessionResults{})
		return
	}
	writeJSON(w, http.StatusOK, s.results.AnalyzeSession())
}

// handleCommand acknowledges dashboard commands. Commands carry no
// server-side behavior yet; the ack format matches what clients expect.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"type":   "command_response",
			"status": "error",
			"error":  "malformed body",
		})
		return
	}
	log.Printf("[BRIDGE] command received: %q", body.Command)
	writeJSON(w, http.StatusOK, map[string]any{
		"type":    "command_response",
		"command": body.Command,
		"status":  "success",
	})
}

// #endregion handlers

// #region helpers

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[BRIDGE] write response: %v", err)
	}
}

// #endregion helpers

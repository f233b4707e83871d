package config

// #region imports
import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region types

// Gaze holds the external gaze tracker connection settings.
type Gaze struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	AppKey string `yaml:"app_key"`
}

// Addr returns the host:port dial target.
func (g Gaze) Addr() string { return fmt.Sprintf("%s:%d", g.Host, g.Port) }

// Detection holds the local face-sampling settings.
type Detection struct {
	IntervalMS int    `yaml:"interval_ms"`
	Source     string `yaml:"source"` // "synthetic" | "none"
}

// Interval returns the sampling cadence as a duration.
func (d Detection) Interval() time.Duration {
	return time.Duration(d.IntervalMS) * time.Millisecond
}

// Images holds the stimulus set location.
type Images struct {
	Dir        string   `yaml:"dir"`
	Categories []string `yaml:"categories"`
}

// Session holds trial timing.
type Session struct {
	SecondsPerPair int `yaml:"seconds_per_pair"`
}

// Display returns the per-pair viewing window.
func (s Session) Display() time.Duration {
	return time.Duration(s.SecondsPerPair) * time.Second
}

// Output holds export and archive destinations.
type Output struct {
	ResultPath string `yaml:"result_path"`
	DBPath     string `yaml:"db_path"`
}

// Bridge holds the live-data HTTP server settings.
type Bridge struct {
	Addr string `yaml:"addr"`
}

// Root is the full configuration tree.
type Root struct {
	Gaze      Gaze      `yaml:"gaze"`
	Detection Detection `yaml:"detection"`
	Images    Images    `yaml:"images"`
	Session   Session   `yaml:"session"`
	Output    Output    `yaml:"output"`
	Bridge    Bridge    `yaml:"bridge"`
}

// #endregion types

// #region defaults

// Default returns the built-in configuration, used when no file exists.
func Default() *Root {
	return &Root{
		Gaze: Gaze{
			Host:   "127.0.0.1",
			Port:   43333,
			AppKey: "AppKeyTrial",
		},
		Detection: Detection{
			IntervalMS: 500,
			Source:     "synthetic",
		},
		Images: Images{
			Dir:        "images",
			Categories: []string{"happy", "sad", "angry", "neutral", "surprise", "fear", "disgust"},
		},
		Session: Session{SecondsPerPair: 10},
		Output: Output{
			ResultPath: "emotion_tracking_results.json",
			DBPath:     "tracker_sessions.db",
		},
		Bridge: Bridge{Addr: "127.0.0.1:8765"},
	}
}

// #endregion defaults

// #region load

// Load reads the config file named by TRACKER_CONFIG (default
// "tracker.yaml"), falling back to built-in defaults when the file does
// not exist. Env vars override individual fields afterwards.
func Load() (*Root, error) {
	path := envOr("TRACKER_CONFIG", "tracker.yaml")

	cfg := Default()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides fields from the environment.
func applyEnv(cfg *Root) {
	if v := os.Getenv("TRACKER_DB"); v != "" {
		cfg.Output.DBPath = v
	}
	if v := os.Getenv("TRACKER_RESULTS"); v != "" {
		cfg.Output.ResultPath = v
	}
	if v := os.Getenv("TRACKER_BRIDGE_ADDR"); v != "" {
		cfg.Bridge.Addr = v
	}
	if v := os.Getenv("TRACKER_GAZE_HOST"); v != "" {
		cfg.Gaze.Host = v
	}
	if v := os.Getenv("TRACKER_APP_KEY"); v != "" {
		cfg.Gaze.AppKey = v
	}
	if v := os.Getenv("TRACKER_IMAGE_DIR"); v != "" {
		cfg.Images.Dir = v
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load

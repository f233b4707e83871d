package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if got := cfg.Gaze.Addr(); got != "127.0.0.1:43333" {
		t.Errorf("gaze addr = %q", got)
	}
	if cfg.Gaze.AppKey != "AppKeyTrial" {
		t.Errorf("app key = %q", cfg.Gaze.AppKey)
	}
	if got := cfg.Session.Display(); got != 10*time.Second {
		t.Errorf("display = %v", got)
	}
	if got := cfg.Detection.Interval(); got != 500*time.Millisecond {
		t.Errorf("interval = %v", got)
	}
	if len(cfg.Images.Categories) != 7 {
		t.Errorf("categories = %v", cfg.Images.Categories)
	}
	if cfg.Output.ResultPath != "emotion_tracking_results.json" {
		t.Errorf("result path = %q", cfg.Output.ResultPath)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TRACKER_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gaze.Port != 43333 {
		t.Errorf("port = %d", cfg.Gaze.Port)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	body := `
gaze:
  host: tracker.lan
  port: 9000
  app_key: RealKey
session:
  seconds_per_pair: 3
images:
  dir: /srv/stimuli
  categories: [happy, sad]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRACKER_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Gaze.Addr(); got != "tracker.lan:9000" {
		t.Errorf("gaze addr = %q", got)
	}
	if cfg.Session.Display() != 3*time.Second {
		t.Errorf("display = %v", cfg.Session.Display())
	}
	if len(cfg.Images.Categories) != 2 {
		t.Errorf("categories = %v", cfg.Images.Categories)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Detection.IntervalMS != 500 {
		t.Errorf("interval = %d", cfg.Detection.IntervalMS)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("gaze: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRACKER_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRACKER_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("TRACKER_DB", "/data/alt.db")
	t.Setenv("TRACKER_BRIDGE_ADDR", "0.0.0.0:9999")
	t.Setenv("TRACKER_GAZE_HOST", "10.0.0.5")
	t.Setenv("TRACKER_APP_KEY", "EnvKey")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.DBPath != "/data/alt.db" {
		t.Errorf("db path = %q", cfg.Output.DBPath)
	}
	if cfg.Bridge.Addr != "0.0.0.0:9999" {
		t.Errorf("bridge addr = %q", cfg.Bridge.Addr)
	}
	if cfg.Gaze.Host != "10.0.0.5" || cfg.Gaze.AppKey != "EnvKey" {
		t.Errorf("gaze = %+v", cfg.Gaze)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Missing config should not be an error: %v", err)
	}

	if cfg.Zoom.MinScale != 1.0 || cfg.Zoom.MaxScale != 4.0 {
		t.Errorf("Unexpected default zoom bounds %v..%v", cfg.Zoom.MinScale, cfg.Zoom.MaxScale)
	}
	if cfg.View.Axis != "vertical" || cfg.View.Page != 1 {
		t.Errorf("Unexpected view defaults %+v", cfg.View)
	}
	if cfg.View.PageSnapping == nil || !*cfg.View.PageSnapping {
		t.Error("Page snapping should default to on")
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
zoom:
  maxScale: 8
view:
  axis: horizontal
  colorMode: night
follow:
  enabled: true
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Zoom.MaxScale != 8 {
		t.Errorf("Expected maxScale 8, got %v", cfg.Zoom.MaxScale)
	}
	if cfg.Zoom.MinScale != 1.0 {
		t.Errorf("Unset minScale should keep default, got %v", cfg.Zoom.MinScale)
	}
	if cfg.View.Axis != "horizontal" || cfg.View.ColorMode != "night" {
		t.Errorf("Unexpected merged view config %+v", cfg.View)
	}
	if !cfg.Follow.Enabled || cfg.Follow.Addr != ":8417" {
		t.Errorf("Unexpected merged follow config %+v", cfg.Follow)
	}
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("zoom: ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Malformed yaml should fail to load")
	}
}

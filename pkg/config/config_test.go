package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	c := Default()
	if c.Capture.ChannelCapacity != 10000 {
		t.Errorf("ChannelCapacity = %d, want 10000", c.Capture.ChannelCapacity)
	}
	if c.Capture.MouseMoveThresholdPx != 5.0 {
		t.Errorf("MouseMoveThresholdPx = %v, want 5.0", c.Capture.MouseMoveThresholdPx)
	}
	if c.Capture.TextTimeoutMs != 300 {
		t.Errorf("TextTimeoutMs = %d, want 300", c.Capture.TextTimeoutMs)
	}
	if c.Locator.TimeoutMs != 5000 {
		t.Errorf("Locator.TimeoutMs = %d, want 5000", c.Locator.TimeoutMs)
	}
	if c.Locator.MaxDepth != 30 {
		t.Errorf("Locator.MaxDepth = %d, want 30", c.Locator.MaxDepth)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Capture.ChannelCapacity != Default().Capture.ChannelCapacity {
		t.Errorf("Load() on missing file did not fall back to defaults")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[capture]
channel_capacity = 500
mouse_move_threshold_px = 0

[locator]
timeout_ms = 1500
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Capture.ChannelCapacity != 500 {
		t.Errorf("ChannelCapacity = %d, want 500", cfg.Capture.ChannelCapacity)
	}
	if cfg.Capture.MouseMoveThresholdPx != 0 {
		t.Errorf("MouseMoveThresholdPx = %v, want 0", cfg.Capture.MouseMoveThresholdPx)
	}
	if cfg.Locator.TimeoutMs != 1500 {
		t.Errorf("Locator.TimeoutMs = %d, want 1500", cfg.Locator.TimeoutMs)
	}
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("not valid = = toml"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed file should return an error")
	}
}

// Package config loads recorder and locator tuning defaults from an
// optional TOML file, falling back to documented defaults when absent.
// Grounded on y3owk1n-neru's internal/config package (BurntSushi/toml,
// stat-then-decode, default-on-absence).
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
)

// Config holds every tunable default used across the capture and
// locator packages. Zero-value Config is never used directly — callers
// get one from Default() or Load().
type Config struct {
	Capture CaptureConfig `toml:"capture"`
	Locator LocatorConfig `toml:"locator"`
}

// CaptureConfig tunes pkg/capture's Recorder.
type CaptureConfig struct {
	// ChannelCapacity bounds the raw-event channel; overflow drops the
	// newest event silently.
	ChannelCapacity int `toml:"channel_capacity"`
	// MouseMoveThresholdPx gates Move event emission by euclidean
	// distance from the last emitted position. Zero emits on every
	// sample.
	MouseMoveThresholdPx float64 `toml:"mouse_move_threshold_px"`
	// TextTimeoutMs is the text coalescer's idle flush timeout.
	TextTimeoutMs int `toml:"text_timeout_ms"`
	// FocusPollMs is T-focus's polling cadence.
	FocusPollMs int `toml:"focus_poll_ms"`
	// CaptureContext enables the per-click asynchronous element_at(x,y)
	// resolver that emits Context events.
	CaptureContext bool `toml:"capture_context"`
}

// LocatorConfig tunes pkg/locator.
type LocatorConfig struct {
	TimeoutMs int `toml:"timeout_ms"`
	MaxDepth  int `toml:"max_depth"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Capture: CaptureConfig{
			ChannelCapacity:      10000,
			MouseMoveThresholdPx: 5.0,
			TextTimeoutMs:        300,
			FocusPollMs:          100,
			CaptureContext:       true,
		},
		Locator: LocatorConfig{
			TimeoutMs: 5000,
			MaxDepth:  30,
		},
	}
}

// TextTimeout returns CaptureConfig.TextTimeoutMs as a time.Duration.
func (c CaptureConfig) TextTimeout() time.Duration {
	return time.Duration(c.TextTimeoutMs) * time.Millisecond
}

// FocusPollInterval returns CaptureConfig.FocusPollMs as a time.Duration.
func (c CaptureConfig) FocusPollInterval() time.Duration {
	return time.Duration(c.FocusPollMs) * time.Millisecond
}

// Timeout returns LocatorConfig.TimeoutMs as a time.Duration.
func (c LocatorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Load reads path and decodes it over the documented defaults. A
// missing file is not an error — it just returns Default(). A malformed
// file returns a CodeUnknown *deskerr.Error and the caller should fall
// back to Default() itself, mirroring y3owk1n-neru's LoadWithValidation
// pattern of never returning a half-decoded config.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = FindConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return Default(), deskerr.Wrap(err, deskerr.CodeUnknown, "failed to parse config file")
	}

	return cfg, nil
}

// FindConfigFile returns the first existing file among
// $XDG_CONFIG_HOME/deskctl/config.toml, ~/.config/deskctl/config.toml,
// ~/.deskctl.toml and ./deskctl.toml, or "" if none exist.
func FindConfigFile() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		p := filepath.Join(xdg, "deskctl", "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "deskctl", "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
		p = filepath.Join(home, ".deskctl.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if _, err := os.Stat("deskctl.toml"); err == nil {
		return "deskctl.toml"
	}

	return ""
}

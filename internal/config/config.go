// Package config loads the air-ball application configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CameraConfig selects and tunes the capture device.
type CameraConfig struct {
	DeviceID int `yaml:"device_id"` // video device index, 0 = default camera
	FPS      int `yaml:"fps"`       // requested capture rate
}

// DetectorConfig configures the hand pose estimator.
type DetectorConfig struct {
	MaxHands int    `yaml:"max_hands"` // maximum hands to track (1-2)
	Model    string `yaml:"model"`     // "full" or "lite"
	Runtime  string `yaml:"runtime"`   // estimation runtime name
	AssetDir string `yaml:"asset_dir"` // solution assets / service script dir
}

// TrackerConfig tunes the poll loop.
type TrackerConfig struct {
	IntervalMs int `yaml:"interval_ms"` // poll cadence in milliseconds
}

// ServerConfig configures the debug/monitoring HTTP server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // listen address, empty disables the server
	StaticDir string `yaml:"static_dir"` // demo page directory, optional
}

// Config aggregates all application configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Tracker  TrackerConfig  `yaml:"tracker"`
	Server   ServerConfig   `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Camera:   CameraConfig{DeviceID: 0, FPS: 30},
		Detector: DetectorConfig{MaxHands: 2, Model: "full", Runtime: "mediapipe"},
		Tracker:  TrackerConfig{IntervalMs: 33},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// Load reads a YAML file and returns the configuration with defaults
// applied for omitted fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation
	if cfg.Camera.DeviceID < 0 {
		return nil, fmt.Errorf("camera.device_id must be >= 0, got %d", cfg.Camera.DeviceID)
	}
	if cfg.Camera.FPS <= 0 {
		cfg.Camera.FPS = 30
	}
	if cfg.Detector.MaxHands <= 0 {
		cfg.Detector.MaxHands = 2
	}
	if cfg.Detector.MaxHands > 2 {
		return nil, fmt.Errorf("detector.max_hands must be 1 or 2, got %d", cfg.Detector.MaxHands)
	}
	if cfg.Detector.Model == "" {
		cfg.Detector.Model = "full"
	}
	if cfg.Detector.Model != "full" && cfg.Detector.Model != "lite" {
		return nil, fmt.Errorf("detector.model must be \"full\" or \"lite\", got %q", cfg.Detector.Model)
	}
	if cfg.Detector.Runtime == "" {
		cfg.Detector.Runtime = "mediapipe"
	}
	if cfg.Tracker.IntervalMs <= 0 {
		cfg.Tracker.IntervalMs = 33
	}

	return cfg, nil
}

// Interval returns the poll cadence as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Tracker.IntervalMs) * time.Millisecond
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default returns the configuration used by the reference ByteTrack harness
func Default() *Config {
	return &Config{
		Tracker: TrackerConfig{
			LostTrackBuffer:          30,
			FrameRate:                30,
			TrackActivationThreshold: 0.25,
			MinimumConsecutiveFrames: 2,
			MinimumIoUThreshold:      0.1,
			HighConfDetThreshold:     0.6,
		},
		Output: OutputConfig{
			Tracker:       "ByteTrack",
			Tolerance:     1e-6,
			ProgressEvery: 100,
		},
	}
}

// Load reads and validates the configuration file at path.  Settings
// missing from the file keep their Default value
func Load(path string) (*Config, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}

	cfg, err := Parse(data)

	if err != nil {
		return nil, fmt.Errorf("error loading config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates YAML configuration data
func Parse(data []byte) (*Config, error) {

	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// an empty document leaves the defaults in place
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks all settings are within range
func (c *Config) Validate() error {

	v := validator.New()

	if err := v.Struct(c.Tracker); err != nil {
		return fmt.Errorf("invalid tracker config: %w", err)
	}

	if err := v.Struct(c.Output); err != nil {
		return fmt.Errorf("invalid output config: %w", err)
	}

	return nil
}

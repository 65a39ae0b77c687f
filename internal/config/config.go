// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Every field has a
// working default; a config file only overrides tuning knobs.
type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// PlaybackConfig tunes the buffer cycle.
type PlaybackConfig struct {
	// BufferSeconds is the target playback duration per buffer.
	BufferSeconds float64 `yaml:"buffer_seconds" default:"0.5" validate:"gt=0,lte=10"`
	// Volume is the initial playback volume in percent.
	Volume int `yaml:"volume" default:"100" validate:"gte=0,lte=100"`
	// DrainGraceMs is how long to wait for the final buffer to play out.
	DrainGraceMs int `yaml:"drain_grace_ms" default:"1000" validate:"gte=0,lte=30000"`
	// PollIntervalMs is the driver loop wake-up interval.
	PollIntervalMs int `yaml:"poll_interval_ms" default:"250" validate:"gt=0,lte=5000"`
}

// OutputConfig selects the playback backend.
type OutputConfig struct {
	Backend string `yaml:"backend" default:"oto" validate:"oneof=oto portaudio"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Output string `yaml:"output" default:"stderr"`
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
}

// DrainGrace returns the drain grace as a duration.
func (c PlaybackConfig) DrainGrace() time.Duration {
	return time.Duration(c.DrainGraceMs) * time.Millisecond
}

// PollInterval returns the poll interval as a duration.
func (c PlaybackConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Gain returns the configured volume as a gain in [0, 1].
func (c PlaybackConfig) Gain() float64 {
	return float64(c.Volume) / 100.0
}

// Default returns the configuration with all defaults applied.
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads configuration from a YAML file, filling omitted fields with
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "config validation failed")
	}
	return nil
}

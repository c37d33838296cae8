// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"botpanel/internal/schedule"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Status sources.
const (
	SourceMock = "mock"
	SourceHost = "host"
)

// Config holds runtime options. Flags override these values.
type Config struct {
	Source       string        `env:"BOTPANEL_SOURCE" envDefault:"mock"`
	LogLevel     string        `env:"BOTPANEL_LOG_LEVEL" envDefault:"info"`
	SettingsPath string        `env:"BOTPANEL_SETTINGS"`
	LogCapacity  int           `env:"BOTPANEL_LOG_CAPACITY" envDefault:"200"`
	StreamMin    time.Duration `env:"BOTPANEL_STREAM_MIN" envDefault:"500ms"`
	StreamMax    time.Duration `env:"BOTPANEL_STREAM_MAX" envDefault:"3s"`
}

// Load reads dotenv files and then parses the environment. Without arguments
// it loads ".env" when present; files named by the caller must exist.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load dotenv: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	return parse(env.Options{})
}

// FromMap parses configuration from vars instead of the process environment.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Source {
	case SourceMock, SourceHost:
	default:
		return fmt.Errorf("unknown status source %q (want %s or %s)", c.Source, SourceMock, SourceHost)
	}
	if c.LogCapacity <= 0 {
		return fmt.Errorf("log capacity must be positive, got %d", c.LogCapacity)
	}
	if err := c.StreamDelay().Validate(); err != nil {
		return fmt.Errorf("stream delay: %w", err)
	}
	return nil
}

// StreamDelay returns the configured delay range between streamed records.
func (c Config) StreamDelay() schedule.Range {
	return schedule.Range{Min: c.StreamMin, Max: c.StreamMax}
}

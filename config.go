package gscene

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const defaultMaxConcurrentFetches = 4

// Config describes a scene and, for hosts that open a window, the window.
type Config struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Title      string  `toml:"title"`
	Background string  `toml:"background"` // root background color, empty for none
	Debug      bool    `toml:"debug"`
	ShowFPS    bool    `toml:"show_fps"`

	// AssetRoot is the directory image URLs are resolved against.
	AssetRoot            string `toml:"asset_root"`
	MaxConcurrentFetches int    `toml:"max_concurrent_fetches"`
}

// DefaultConfig returns a 400x300 scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:                400,
		Height:               300,
		Title:                "gscene",
		MaxConcurrentFetches: defaultMaxConcurrentFetches,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %gx%g", c.Width, c.Height))
	}
	if c.MaxConcurrentFetches < 0 {
		errs = append(errs, fmt.Errorf("invalid max_concurrent_fetches %d", c.MaxConcurrentFetches))
	}
	if c.Background != "" {
		if _, err := ParseColor(c.Background); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadConfig parses TOML on top of DefaultConfig and validates the result.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads and parses the TOML file at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return LoadConfig(data)
}

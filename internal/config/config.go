// Package config loads the optional TOML settings file and merges it over
// the built-in defaults.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/glyphpack/glyphpack/internal/model"
)

// Config is the on-disk configuration. Zero values mean "use the default".
type Config struct {
	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`
	FontPath       string  `toml:"font_path"` // empty means the bundled Go Regular
	ReferenceSize  float64 `toml:"reference_size"`

	Seed            int64   `toml:"seed"`
	PositionTrials  int     `toml:"position_trials"`
	RotationSteps   int     `toml:"rotation_steps"`
	MinScale        float64 `toml:"min_scale"`
	BoundaryMargin  float64 `toml:"boundary_margin"`
	CollisionMargin float64 `toml:"collision_margin"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ViewportWidth:  1000,
		ViewportHeight: 800,
		ReferenceSize:  100,
	}
}

// Load reads a TOML config file and merges it over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		return Config{}, fmt.Errorf("load config %s: viewport dimensions must be positive", path)
	}
	return cfg, nil
}

// Viewport returns the configured canvas extent.
func (c Config) Viewport() model.Viewport {
	return model.Viewport{Width: c.ViewportWidth, Height: c.ViewportHeight}
}

// SearchSettings merges the configured overrides into the default search
// parameters.
func (c Config) SearchSettings() model.SearchSettings {
	s := model.DefaultSearchSettings()
	if c.Seed != 0 {
		s.Seed = c.Seed
	}
	if c.PositionTrials > 0 {
		s.PositionTrials = c.PositionTrials
	}
	if c.RotationSteps > 0 {
		s.RotationSteps = c.RotationSteps
	}
	if c.MinScale > 0 {
		s.MinScale = c.MinScale
	}
	if c.BoundaryMargin > 0 {
		s.BoundaryMargin = c.BoundaryMargin
	}
	if c.CollisionMargin > 0 {
		s.CollisionMargin = c.CollisionMargin
	}
	return s
}

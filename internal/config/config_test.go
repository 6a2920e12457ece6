package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphpack/glyphpack/internal/model"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glyphpack.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 1000.0, cfg.ViewportWidth)
	assert.Equal(t, 800.0, cfg.ViewportHeight)
	assert.Equal(t, 100.0, cfg.ReferenceSize)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
viewport_width = 1920
viewport_height = 1080
seed = 7
position_trials = 50
min_scale = 20
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 1920.0, cfg.ViewportWidth)
	assert.Equal(t, 1080.0, cfg.ViewportHeight)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 50, cfg.PositionTrials)
	assert.Equal(t, 20.0, cfg.MinScale)
	// Untouched keys keep their defaults.
	assert.Equal(t, 100.0, cfg.ReferenceSize)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/glyphpack.toml")
	assert.Error(t, err)
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := writeConfigFile(t, "viewport_width = [this is not toml")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_NonPositiveViewportErrors(t *testing.T) {
	path := writeConfigFile(t, "viewport_width = -100\nviewport_height = 800\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewport dimensions")
}

func TestConfig_Viewport(t *testing.T) {
	cfg := Config{ViewportWidth: 640, ViewportHeight: 480}
	assert.Equal(t, model.Viewport{Width: 640, Height: 480}, cfg.Viewport())
}

func TestConfig_SearchSettings_DefaultsPassThrough(t *testing.T) {
	s := Default().SearchSettings()
	assert.Equal(t, model.DefaultSearchSettings(), s)
}

func TestConfig_SearchSettings_OverridesMerge(t *testing.T) {
	cfg := Default()
	cfg.Seed = 99
	cfg.PositionTrials = 25
	cfg.RotationSteps = 4
	cfg.MinScale = 30
	cfg.BoundaryMargin = 5
	cfg.CollisionMargin = 1

	s := cfg.SearchSettings()

	assert.Equal(t, int64(99), s.Seed)
	assert.Equal(t, 25, s.PositionTrials)
	assert.Equal(t, 4, s.RotationSteps)
	assert.Equal(t, 30.0, s.MinScale)
	assert.Equal(t, 5.0, s.BoundaryMargin)
	assert.Equal(t, 1.0, s.CollisionMargin)
	// Unconfigured knobs keep the production defaults.
	assert.Equal(t, 0.8, s.MaxScaleFactor)
	assert.Equal(t, 40.0, s.FallbackScale)
}

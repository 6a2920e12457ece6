package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlacedShape(t *testing.T) {
	p := PlacementResult{X: 120, Y: 340, Rotation: 45, Scale: 80, Score: 80}

	sh := NewPlacedShape("A", p)

	assert.Len(t, sh.ID, 8)
	assert.Equal(t, "A", sh.Glyph)
	assert.Equal(t, 120.0, sh.X)
	assert.Equal(t, 340.0, sh.Y)
	assert.Equal(t, 45.0, sh.Rotation)
	assert.Equal(t, 80.0, sh.Scale)
	assert.True(t, sh.Confirmed)
}

func TestNewPlacedShape_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		sh := NewPlacedShape("X", PlacementResult{})
		assert.False(t, seen[sh.ID], "duplicate id %s", sh.ID)
		seen[sh.ID] = true
	}
}

func TestPlacedShape_Pose(t *testing.T) {
	sh := PlacedShape{X: 10, Y: 20, Rotation: 90, Scale: 50}

	pose := sh.Pose()

	assert.Equal(t, 10.0, pose.X)
	assert.Equal(t, 20.0, pose.Y)
	assert.Equal(t, 90.0, pose.Rotation)
	assert.Equal(t, 50.0, pose.Scale)
}

func TestViewport_Center(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 800}
	cx, cy := vp.Center()
	assert.Equal(t, 500.0, cx)
	assert.Equal(t, 400.0, cy)
}

func TestViewport_MinDimension(t *testing.T) {
	assert.Equal(t, 800.0, Viewport{Width: 1000, Height: 800}.MinDimension())
	assert.Equal(t, 600.0, Viewport{Width: 600, Height: 900}.MinDimension())
}

func TestFontMetrics_LineHeight(t *testing.T) {
	m := FontMetrics{UnitsPerEm: 100, Ascender: 74, Descender: 24}
	assert.InDelta(t, 0.98, m.LineHeight(), 1e-12)

	// Zero metrics fall back to a square character box instead of dividing
	// by zero.
	assert.Equal(t, 1.0, FontMetrics{}.LineHeight())
}

func TestDefaultSearchSettings(t *testing.T) {
	s := DefaultSearchSettings()

	assert.Equal(t, 200, s.PositionTrials)
	assert.Equal(t, 8, s.RotationSteps)
	assert.Equal(t, 0.8, s.MaxScaleFactor)
	assert.Equal(t, 15.0, s.MinScale)
	assert.Equal(t, 10.0, s.BoundaryMargin)
	assert.Equal(t, 2.0, s.CollisionMargin)
	assert.Equal(t, 40.0, s.FallbackScale)
	assert.Equal(t, int64(0), s.Seed)
}

func TestRequest_JSONFieldNames(t *testing.T) {
	// The request wire names are part of the external contract.
	req := Request{
		CharacterID: "char-3",
		NewGlyph:    "Q",
		Viewport:    Viewport{Width: 640, Height: 480},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "characterId")
	assert.Contains(t, raw, "newGlyph")
	assert.Contains(t, raw, "existingShapes")
	assert.Contains(t, raw, "viewport")
	assert.Contains(t, raw, "fontMetrics")
}

// Package model holds the shared data types exchanged between the shape
// analyzer, the placement engine, and the exporters.
package model

import (
	"github.com/google/uuid"

	"github.com/glyphpack/glyphpack/internal/geom"
)

// PlacedShape is a glyph that is already on the canvas. The engine consumes
// placed shapes as read-only collision input and never mutates them in place;
// relayout returns updated copies.
type PlacedShape struct {
	ID        string  `json:"id"`
	Glyph     string  `json:"glyph"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  float64 `json:"rotation"` // degrees
	Scale     float64 `json:"scale"`
	Confirmed bool    `json:"confirmed"` // false while part of an in-progress input sequence
}

// NewPlacedShape creates a confirmed shape for a glyph at the given pose.
func NewPlacedShape(glyph string, p PlacementResult) PlacedShape {
	return PlacedShape{
		ID:        uuid.New().String()[:8],
		Glyph:     glyph,
		X:         p.X,
		Y:         p.Y,
		Rotation:  p.Rotation,
		Scale:     p.Scale,
		Confirmed: true,
	}
}

// Pose returns the shape's recorded pose as a geometry transform.
func (s PlacedShape) Pose() geom.Transform {
	return geom.Transform{X: s.X, Y: s.Y, Rotation: s.Rotation, Scale: s.Scale}
}

// PlacementResult is the pose found for a new glyph. Score is the achieved
// scale and ranks candidate poses; it is not normalized. The first shape on
// an empty canvas reports the conventional score 1.0, and a fallback
// placement reports 0.
type PlacementResult struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
	Score    float64 `json:"score"`
}

// Viewport is the current canvas extent. Callers re-provide it on every
// request; the engine holds no cached dimensions across resizes.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the viewport midpoint.
func (v Viewport) Center() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// MinDimension returns the smaller of width and height.
func (v Viewport) MinDimension() float64 {
	if v.Width < v.Height {
		return v.Width
	}
	return v.Height
}

// FontMetrics describes the font used for dimension estimation. The engine
// uses it only to estimate character extents at a given scale, never to
// render glyphs.
type FontMetrics struct {
	UnitsPerEm float64 `json:"unitsPerEm"`
	Ascender   float64 `json:"ascender"`
	Descender  float64 `json:"descender"` // positive magnitude below the baseline
}

// LineHeight returns the em-relative height of a character box.
func (m FontMetrics) LineHeight() float64 {
	if m.UnitsPerEm == 0 {
		return 1
	}
	return (m.Ascender + m.Descender) / m.UnitsPerEm
}

// Request is a placement computation request as handed to the engine or its
// async dispatcher.
type Request struct {
	CharacterID    string        `json:"characterId"`
	ExistingShapes []PlacedShape `json:"existingShapes"`
	NewGlyph       string        `json:"newGlyph"`
	Viewport       Viewport      `json:"viewport"`
	Metrics        FontMetrics   `json:"fontMetrics"`
}

// Response carries the placement back to the caller. This is the only thing
// the engine exposes to its environment.
type Response struct {
	CharacterID string          `json:"characterId"`
	Placement   PlacementResult `json:"placement"`
}

// Layout is a packed arrangement of glyph shapes within a viewport.
type Layout struct {
	Viewport Viewport      `json:"viewport"`
	Shapes   []PlacedShape `json:"shapes"`
}

// SearchSettings holds the tunable parameters of the stochastic placement
// search.
type SearchSettings struct {
	PositionTrials  int     `json:"position_trials"`  // random positions per placement
	RotationSteps   int     `json:"rotation_steps"`   // evenly spaced angles over 360 degrees
	MaxScaleFactor  float64 `json:"max_scale_factor"` // of the smaller viewport dimension
	MinScale        float64 `json:"min_scale"`        // binary search floor and final visibility clamp
	BoundaryMargin  float64 `json:"boundary_margin"`  // keep-out from each viewport edge
	CollisionMargin float64 `json:"collision_margin"` // hull expansion before intersection tests
	ScaleTolerance  float64 `json:"scale_tolerance"`  // binary search bracket width cutoff
	MaxIterations   int     `json:"max_iterations"`   // binary search iteration cap
	WidthRatio      float64 `json:"width_ratio"`      // empirical character width per unit scale
	FallbackScale   float64 `json:"fallback_scale"`   // moderate scale used on computation failure
	Seed            int64   `json:"seed"`             // 0 means time-seeded
}

// DefaultSearchSettings returns the production search parameters.
func DefaultSearchSettings() SearchSettings {
	return SearchSettings{
		PositionTrials:  200,
		RotationSteps:   8,
		MaxScaleFactor:  0.8,
		MinScale:        15,
		BoundaryMargin:  10,
		CollisionMargin: 2,
		ScaleTolerance:  2,
		MaxIterations:   16,
		WidthRatio:      0.7,
		FallbackScale:   40,
		Seed:            0,
	}
}

// Package engine implements the stochastic placement search: given the
// shapes already on the canvas and a new glyph, it finds a pose (position,
// rotation, scale) that maximizes the glyph's size without overlapping any
// existing shape or the viewport boundary.
package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/glyphpack/glyphpack/internal/geom"
	"github.com/glyphpack/glyphpack/internal/model"
	"github.com/glyphpack/glyphpack/internal/shape"
)

// Engine runs placement searches. The random source is seeded from the
// settings so tests can fix the trial sequence; a zero seed falls back to
// the clock.
type Engine struct {
	settings model.SearchSettings
	analyzer *shape.Analyzer

	mu  sync.Mutex // guards rng; placements may run on dispatcher goroutines
	rng *rand.Rand
}

// New creates an engine over the given analyzer.
func New(settings model.SearchSettings, analyzer *shape.Analyzer) *Engine {
	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		settings: settings,
		analyzer: analyzer,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Settings returns the engine's search parameters.
func (e *Engine) Settings() model.SearchSettings {
	return e.settings
}

// Analyzer returns the engine's shape analyzer.
func (e *Engine) Analyzer() *shape.Analyzer {
	return e.analyzer
}

// obstacle is an existing shape reduced to its collision hull and pose.
type obstacle struct {
	hull geom.Polygon
	pose geom.Transform
}

// OptimalPlacement finds a pose for a new glyph against the existing shapes.
// The first shape on an empty canvas goes to the viewport center at 80% of
// the smaller viewport dimension with the conventional score 1.0. Every
// later shape is placed by random multi-start search: a budget of random
// positions crossed with evenly spaced rotations, with a binary search on
// scale per candidate pose. The result's score is the achieved scale,
// clamped up to the minimum visibility floor. The search always terminates
// with a best-effort result; exhaustion is not an error.
func (e *Engine) OptimalPlacement(existing []model.PlacedShape, glyph string, vp model.Viewport) (model.PlacementResult, error) {
	return e.optimalPlacement(existing, glyph, vp, e.analyzer.Metrics())
}

func (e *Engine) optimalPlacement(existing []model.PlacedShape, glyph string, vp model.Viewport, metrics model.FontMetrics) (model.PlacementResult, error) {
	analysis, err := e.analyzer.Analyze(glyph)
	if err != nil {
		return model.PlacementResult{}, fmt.Errorf("analyze glyph %q: %w", glyph, err)
	}

	cx, cy := vp.Center()
	maxScale := vp.MinDimension() * e.settings.MaxScaleFactor

	if len(existing) == 0 {
		return model.PlacementResult{X: cx, Y: cy, Rotation: 0, Scale: maxScale, Score: 1.0}, nil
	}

	obstacles, err := e.collectObstacles(existing)
	if err != nil {
		return model.PlacementResult{}, err
	}

	s := e.settings
	// Best-effort default: center pose at the minimum scale. Overwritten by
	// any candidate the search actually fits.
	best := model.PlacementResult{X: cx, Y: cy, Rotation: 0, Scale: s.MinScale, Score: s.MinScale}

	for trial := 0; trial < s.PositionTrials; trial++ {
		x := s.BoundaryMargin + e.randFloat()*(vp.Width-2*s.BoundaryMargin)
		y := s.BoundaryMargin + e.randFloat()*(vp.Height-2*s.BoundaryMargin)

		for step := 0; step < s.RotationSteps; step++ {
			rotation := float64(step) * 360 / float64(s.RotationSteps)

			scale, ok := e.maxFittingScale(analysis, x, y, rotation, maxScale, obstacles, vp, metrics)
			if ok && scale > best.Score {
				best = model.PlacementResult{X: x, Y: y, Rotation: rotation, Scale: scale, Score: scale}
			}
		}
	}

	if best.Scale < s.MinScale {
		best.Scale = s.MinScale
		best.Score = best.Scale
	}
	return best, nil
}

// maxFittingScale binary-searches the largest collision-free scale at the
// given pose. The bracket starts at [MinScale, maxScale] and narrows toward
// the largest scale that does not collide, stopping at the iteration cap or
// once the bracket is narrower than the tolerance. ok is false when even the
// minimum scale collides at this pose.
func (e *Engine) maxFittingScale(analysis *shape.Analysis, x, y, rotation, maxScale float64, obstacles []obstacle, vp model.Viewport, metrics model.FontMetrics) (float64, bool) {
	s := e.settings
	lo, hi := s.MinScale, maxScale
	if lo >= hi {
		return 0, false
	}
	if e.collidesAt(analysis, x, y, rotation, lo, obstacles, vp, metrics) {
		return 0, false
	}
	if !e.collidesAt(analysis, x, y, rotation, hi, obstacles, vp, metrics) {
		return hi, true
	}

	for iter := 0; iter < s.MaxIterations && hi-lo > s.ScaleTolerance; iter++ {
		mid := (lo + hi) / 2
		if e.collidesAt(analysis, x, y, rotation, mid, obstacles, vp, metrics) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo, true
}

// collidesAt tests a candidate pose against the viewport boundary and every
// existing shape. The boundary test uses the rotation-aware bounding box of
// the estimated character dimensions; the shape tests use hull collision
// with the configured expansion margin.
func (e *Engine) collidesAt(analysis *shape.Analysis, x, y, rotation, scale float64, obstacles []obstacle, vp model.Viewport, metrics model.FontMetrics) bool {
	s := e.settings

	w := s.WidthRatio * scale
	h := metrics.LineHeight() * scale
	rad := rotation * math.Pi / 180
	rw := math.Abs(math.Cos(rad))*w + math.Abs(math.Sin(rad))*h
	rh := math.Abs(math.Sin(rad))*w + math.Abs(math.Cos(rad))*h

	if x-rw/2 < s.BoundaryMargin || x+rw/2 > vp.Width-s.BoundaryMargin ||
		y-rh/2 < s.BoundaryMargin || y+rh/2 > vp.Height-s.BoundaryMargin {
		return true
	}

	pose := geom.Transform{X: x, Y: y, Rotation: rotation, Scale: scale}
	for _, obs := range obstacles {
		if geom.CheckPolygonCollision(analysis.Hull, pose, obs.hull, obs.pose, s.CollisionMargin) {
			return true
		}
	}
	return false
}

// collectObstacles resolves the cached hull and recorded pose of every
// existing shape.
func (e *Engine) collectObstacles(existing []model.PlacedShape) ([]obstacle, error) {
	obstacles := make([]obstacle, 0, len(existing))
	for _, sh := range existing {
		analysis, err := e.analyzer.Analyze(sh.Glyph)
		if err != nil {
			return nil, fmt.Errorf("analyze placed glyph %q: %w", sh.Glyph, err)
		}
		obstacles = append(obstacles, obstacle{hull: analysis.Hull, pose: sh.Pose()})
	}
	return obstacles, nil
}

// RecalculateAll relays out the movable (unconfirmed) shapes while holding
// confirmed shapes fixed. Movable shapes are replaced one at a time in input
// order, each against the fixed shapes plus the movable shapes already
// replaced. Shapes marked confirmed pass through with their pose untouched.
// Empty input returns empty output.
func (e *Engine) RecalculateAll(shapes []model.PlacedShape, vp model.Viewport) []model.PlacedShape {
	if len(shapes) == 0 {
		return []model.PlacedShape{}
	}

	var fixed []model.PlacedShape
	for _, sh := range shapes {
		if sh.Confirmed {
			fixed = append(fixed, sh)
		}
	}

	result := make([]model.PlacedShape, 0, len(shapes))
	placed := fixed
	for _, sh := range shapes {
		if sh.Confirmed {
			result = append(result, sh)
			continue
		}

		placement, err := e.OptimalPlacement(placed, sh.Glyph, vp)
		if err != nil {
			placement = e.Fallback(vp)
		}
		sh.X = placement.X
		sh.Y = placement.Y
		sh.Rotation = placement.Rotation
		sh.Scale = placement.Scale

		result = append(result, sh)
		placed = append(placed, sh)
	}
	return result
}

// Fallback returns the placement substituted when a computation fails:
// viewport center, random rotation, a fixed moderate scale, score zero.
func (e *Engine) Fallback(vp model.Viewport) model.PlacementResult {
	cx, cy := vp.Center()
	return model.PlacementResult{
		X:        cx,
		Y:        cy,
		Rotation: e.randFloat() * 360,
		Scale:    e.settings.FallbackScale,
		Score:    0,
	}
}

// Place serves a full placement request. Any error or panic inside the
// search resolves to the fallback placement; the caller always receives a
// response.
func (e *Engine) Place(req model.Request) (resp model.Response) {
	resp = model.Response{CharacterID: req.CharacterID}
	defer func() {
		if r := recover(); r != nil {
			resp.Placement = e.Fallback(req.Viewport)
		}
	}()

	metrics := req.Metrics
	if metrics.UnitsPerEm == 0 {
		metrics = e.analyzer.Metrics()
	}

	placement, err := e.optimalPlacement(req.ExistingShapes, req.NewGlyph, req.Viewport, metrics)
	if err != nil {
		resp.Placement = e.Fallback(req.Viewport)
		return resp
	}
	resp.Placement = placement
	return resp
}

func (e *Engine) randFloat() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

// Package shape turns glyph characters into cached geometric descriptions:
// the glyph is rasterized into an offscreen alpha image at a fixed reference
// size, its silhouette is traced from the raster, and the trace is reduced to
// a convex hull for cheap, robust collision testing. Concave glyph features
// (the inside of an "O") are deliberately lost in that reduction.
package shape

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"sort"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/glyphpack/glyphpack/internal/geom"
	"github.com/glyphpack/glyphpack/internal/model"
)

// ErrNoOutline is returned for glyphs that leave no ink on the raster, such
// as spaces and control characters.
var ErrNoOutline = errors.New("glyph has no traceable outline")

const (
	// inkThreshold is the alpha value above which a raster pixel counts as ink.
	inkThreshold = 64
	// traceStride is the raster scan step. Coarser than 1 keeps the edge
	// point count manageable; the hull reduction absorbs the lost detail.
	traceStride = 2
	// rasterPad is the blank border around the glyph on the raster, so edge
	// detection never runs off the image.
	rasterPad = 4
	// bandFraction is the share of the bounding box counted as a
	// near-extremal band when ordering edge points into an outline.
	bandFraction = 0.25
)

// Analysis is the cached geometric description of a single glyph, produced
// once per distinct character and immutable after creation. Coordinates are
// shape-local: the glyph's bounding box is centered on the origin and scaled
// so its larger dimension is 1, making a pose's scale the world-space size.
type Analysis struct {
	BoundingBox  geom.BoundingBox
	Hull         geom.Polygon // convex hull of the traced outline
	Area         float64
	Centroid     geom.Point
	PathCommands []string // derived from the trace, for external rendering only
}

// Analyzer rasterizes glyphs and memoizes their analyses per character. The
// cache is append-only and safe for concurrent use; recomputing and
// overwriting the same key is harmless.
type Analyzer struct {
	face    font.Face
	metrics model.FontMetrics
	refSize float64

	mu    sync.RWMutex
	cache map[string]*Analysis
}

// NewAnalyzer builds an analyzer over raw TTF/OTF font data, rasterizing at
// the given reference pixel size.
func NewAnalyzer(fontData []byte, refSize float64) (*Analyzer, error) {
	if refSize <= 0 {
		return nil, fmt.Errorf("reference size must be positive, got %v", refSize)
	}
	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    refSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	fm := face.Metrics()
	return &Analyzer{
		face:    face,
		refSize: refSize,
		metrics: model.FontMetrics{
			// The reference pixel size stands in for the em; ascender and
			// descender are expressed in the same pixel units.
			UnitsPerEm: refSize,
			Ascender:   fixedToFloat(fm.Ascent),
			Descender:  fixedToFloat(fm.Descent),
		},
		cache: make(map[string]*Analysis),
	}, nil
}

// NewAnalyzerFromFile builds an analyzer from a font file on disk.
func NewAnalyzerFromFile(path string, refSize float64) (*Analyzer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	return NewAnalyzer(data, refSize)
}

// DefaultAnalyzer builds an analyzer over the bundled Go Regular font at a
// 100px reference size.
func DefaultAnalyzer() (*Analyzer, error) {
	return NewAnalyzer(goregular.TTF, 100)
}

// Metrics returns the font metrics used for dimension estimation.
func (a *Analyzer) Metrics() model.FontMetrics {
	return a.metrics
}

// Analyze returns the cached analysis for a glyph, computing it on first
// use. Identical glyphs never re-pay the raster, trace, and hull cost.
func (a *Analyzer) Analyze(glyph string) (*Analysis, error) {
	a.mu.RLock()
	cached, ok := a.cache[glyph]
	a.mu.RUnlock()
	if ok {
		return cached, nil
	}

	analysis, err := a.analyze(glyph)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[glyph] = analysis
	a.mu.Unlock()
	return analysis, nil
}

// analyze performs the raster, trace, and hull pipeline for one glyph.
func (a *Analyzer) analyze(glyph string) (*Analysis, error) {
	img := a.rasterize(glyph)
	edges := traceEdges(img)
	if len(edges) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrNoOutline, glyph)
	}

	outline := orderOutline(edges)
	normalized := normalizeOutline(outline)

	hull := geom.ConvexHull(normalized)
	if len(hull) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrNoOutline, glyph)
	}

	bounds, _ := hull.Bounds()
	return &Analysis{
		BoundingBox:  bounds,
		Hull:         hull,
		Area:         geom.HullArea(hull),
		Centroid:     hull.Centroid(),
		PathCommands: pathCommands(normalized),
	}, nil
}

// rasterize draws the glyph into an offscreen alpha image at the reference
// size, with padding on every side.
func (a *Analyzer) rasterize(glyph string) *image.Alpha {
	bounds, _ := font.BoundString(a.face, glyph)
	w := (bounds.Max.X - bounds.Min.X).Ceil() + 2*rasterPad
	h := (bounds.Max.Y - bounds.Min.Y).Ceil() + 2*rasterPad
	if w < 2*rasterPad {
		w = 2 * rasterPad
	}
	if h < 2*rasterPad {
		h = 2 * rasterPad
	}

	img := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: a.face,
		Dot: fixed.Point26_6{
			X: fixed.I(rasterPad) - bounds.Min.X,
			Y: fixed.I(rasterPad) - bounds.Min.Y,
		},
	}
	d.DrawString(glyph)
	return img
}

// traceEdges scans the raster on a coarse stride and collects pixels that
// are ink with at least one background 4-neighbor. Pixels on the image rim
// count their missing neighbors as background.
func traceEdges(img *image.Alpha) []geom.Point {
	b := img.Bounds()
	var edges []geom.Point
	for y := b.Min.Y; y < b.Max.Y; y += traceStride {
		for x := b.Min.X; x < b.Max.X; x += traceStride {
			if !isInk(img, x, y) {
				continue
			}
			if !isInk(img, x-1, y) || !isInk(img, x+1, y) ||
				!isInk(img, x, y-1) || !isInk(img, x, y+1) {
				edges = append(edges, geom.Point{X: float64(x), Y: float64(y)})
			}
		}
	}
	return edges
}

func isInk(img *image.Alpha, x, y int) bool {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return false
	}
	return img.AlphaAt(x, y).A > inkThreshold
}

// orderOutline reorganizes scattered edge points into an approximately
// contour-ordered outline by grouping near-extremal bands: top points left to
// right, right points top to bottom, bottom points right to left, left points
// bottom to top. Interior leftovers are appended at the end. This is a cheap
// approximation, not a topologically exact contour trace; the hull reduction
// downstream does not depend on the ordering.
func orderOutline(points []geom.Point) []geom.Point {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	bandW := (maxX - minX) * bandFraction
	bandH := (maxY - minY) * bandFraction

	used := make([]bool, len(points))
	take := func(pred func(geom.Point) bool, less func(a, b geom.Point) bool) []geom.Point {
		var band []geom.Point
		for i, p := range points {
			if !used[i] && pred(p) {
				used[i] = true
				band = append(band, p)
			}
		}
		sort.Slice(band, func(i, j int) bool { return less(band[i], band[j]) })
		return band
	}

	var outline []geom.Point
	outline = append(outline, take(
		func(p geom.Point) bool { return p.Y <= minY+bandH },
		func(a, b geom.Point) bool { return a.X < b.X })...)
	outline = append(outline, take(
		func(p geom.Point) bool { return p.X >= maxX-bandW },
		func(a, b geom.Point) bool { return a.Y < b.Y })...)
	outline = append(outline, take(
		func(p geom.Point) bool { return p.Y >= maxY-bandH },
		func(a, b geom.Point) bool { return a.X > b.X })...)
	outline = append(outline, take(
		func(p geom.Point) bool { return p.X <= minX+bandW },
		func(a, b geom.Point) bool { return a.Y > b.Y })...)
	outline = append(outline, take(
		func(geom.Point) bool { return true },
		func(a, b geom.Point) bool { return a.X < b.X })...)
	return outline
}

// normalizeOutline maps raster coordinates into shape-local space: the
// bounding box center moves to the origin and the larger dimension scales
// to 1, so a pose's scale equals the rendered size.
func normalizeOutline(points []geom.Point) []geom.Point {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	maxDim := math.Max(maxX-minX, maxY-minY)
	if maxDim == 0 {
		maxDim = 1
	}

	out := make([]geom.Point, len(points))
	for i, p := range points {
		out[i] = geom.Point{X: (p.X - cx) / maxDim, Y: (p.Y - cy) / maxDim}
	}
	return out
}

// pathCommands renders the outline as SVG-style move/line/close commands for
// external renderers. The collision pipeline never reads these.
func pathCommands(outline []geom.Point) []string {
	if len(outline) == 0 {
		return nil
	}
	cmds := make([]string, 0, len(outline)+1)
	cmds = append(cmds, fmt.Sprintf("M %.4f %.4f", outline[0].X, outline[0].Y))
	for _, p := range outline[1:] {
		cmds = append(cmds, fmt.Sprintf("L %.4f %.4f", p.X, p.Y))
	}
	cmds = append(cmds, "Z")
	return cmds
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

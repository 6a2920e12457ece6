// Package geom provides the planar geometry primitives used by the packing
// engine: polygons, affine poses, convex hulls, and tolerance-based
// intersection tests. All operations are pure; degenerate inputs (fewer than
// three points, zero-length vectors) produce defined sentinel results rather
// than errors.
package geom

import "math"

// Epsilon is the tolerance used by the intersection tests when comparing
// coordinates and classifying on-edge points.
const Epsilon = 1e-9

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the point shifted by the given offset.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// DistanceTo returns the Euclidean distance to another point.
func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Polygon is an ordered sequence of points. Edges run between consecutive
// points with an implicit wraparound from the last point back to the first.
// Area and containment operations require at least three points; smaller
// polygons are treated as degenerate, not as errors.
type Polygon []Point

// BoundingBox is an axis-aligned box over a polygon's extrema.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the axis-aligned bounding box of the polygon. The second
// return value is false for degenerate polygons with fewer than three points,
// for which no box is defined.
func (p Polygon) Bounds() (BoundingBox, bool) {
	if len(p) < 3 {
		return BoundingBox{}, false
	}
	minX, minY := p[0].X, p[0].Y
	maxX, maxY := p[0].X, p[0].Y
	for _, pt := range p[1:] {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Centroid returns the arithmetic mean of the polygon's vertices. Degenerate
// polygons yield the zero point.
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, pt := range p {
		sx += pt.X
		sy += pt.Y
	}
	n := float64(len(p))
	return Point{X: sx / n, Y: sy / n}
}

// Area returns the absolute polygon area via the shoelace formula.
// Polygons with fewer than three points have zero area.
func (p Polygon) Area() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p[i].X * p[j].Y
		area -= p[j].X * p[i].Y
	}
	return math.Abs(area) / 2
}

// Transform places a shape-local polygon into world space. Scale is applied
// first, then rotation about the local origin, then translation. The order is
// an invariant of the collision pipeline: changing it changes which poses
// collide.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"` // degrees
	Scale    float64 `json:"scale"`
}

// Apply transforms every point of the polygon: scale, then rotation, then
// translation.
func (t Transform) Apply(p Polygon) Polygon {
	rad := t.Rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	out := make(Polygon, len(p))
	for i, pt := range p {
		x := pt.X * t.Scale
		y := pt.Y * t.Scale
		out[i] = Point{
			X: x*cos - y*sin + t.X,
			Y: x*sin + y*cos + t.Y,
		}
	}
	return out
}

// Inverse returns the algebraic inverse of the transform. Applying a
// transform and then its inverse reproduces the original polygon up to
// floating-point error. A zero scale has no inverse and yields a zero-value
// transform.
func (t Transform) Inverse() Transform {
	if t.Scale == 0 {
		return Transform{}
	}
	return Transform{X: -t.X, Y: -t.Y, Rotation: -t.Rotation, Scale: 1 / t.Scale}
}

// ApplyInverse undoes the transform: translation first, then rotation, then
// scale, each negated or reciprocated.
func (t Transform) ApplyInverse(p Polygon) Polygon {
	if t.Scale == 0 {
		return nil
	}
	rad := -t.Rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	out := make(Polygon, len(p))
	for i, pt := range p {
		x := pt.X - t.X
		y := pt.Y - t.Y
		rx := x*cos - y*sin
		ry := x*sin + y*cos
		out[i] = Point{X: rx / t.Scale, Y: ry / t.Scale}
	}
	return out
}

// Expand dilates the polygon by projecting every vertex outward from the
// centroid by margin along the centroid-to-vertex ray. This is an
// approximation of a true geometric offset, adequate for the convex hulls
// that reach the collision stage; corners are not mitered. Vertices within
// Epsilon of the centroid are left in place.
func (p Polygon) Expand(margin float64) Polygon {
	if len(p) < 3 || margin == 0 {
		return p
	}
	c := p.Centroid()
	out := make(Polygon, len(p))
	for i, pt := range p {
		dx := pt.X - c.X
		dy := pt.Y - c.Y
		d := math.Hypot(dx, dy)
		if d < Epsilon {
			out[i] = pt
			continue
		}
		out[i] = Point{X: pt.X + dx/d*margin, Y: pt.Y + dy/d*margin}
	}
	return out
}

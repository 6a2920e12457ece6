package geom

import "math"

// Containment is the three-state outcome of a point-in-polygon test.
type Containment int

const (
	Outside Containment = iota
	Inside
	// Indeterminate means the point coincides with a vertex or lies exactly
	// on an edge. Callers must treat it as "cannot decide" and pick a
	// fallback branch instead of coercing it to a side.
	Indeterminate
)

func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case Indeterminate:
		return "indeterminate"
	default:
		return "outside"
	}
}

// PointInPolygon classifies pt against poly shifted by offset, using a
// ray-casting parity test. Points within Epsilon of a vertex or lying on an
// edge return Indeterminate. Polygons with fewer than three points always
// classify as Outside. Near-zero-length edges are skipped when accumulating
// parity.
func PointInPolygon(pt Point, poly Polygon, offset Point) Containment {
	if len(poly) < 3 {
		return Outside
	}

	n := len(poly)
	inside := false
	for i := 0; i < n; i++ {
		a := poly[i].Add(offset)
		b := poly[(i+1)%n].Add(offset)

		if pt.DistanceTo(a) < Epsilon {
			return Indeterminate
		}
		if a.DistanceTo(b) < Epsilon {
			continue // degenerate edge
		}
		if OnSegment(pt, a, b) {
			return Indeterminate
		}

		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xCross := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < xCross {
				inside = !inside
			}
		}
	}

	if inside {
		return Inside
	}
	return Outside
}

// OnSegment reports whether pt lies on the segment from a to b, within
// Epsilon perpendicular distance and within the segment's extent.
func OnSegment(pt, a, b Point) bool {
	segLen := a.DistanceTo(b)
	if segLen < Epsilon {
		return pt.DistanceTo(a) < Epsilon
	}
	// Perpendicular distance from pt to the infinite line through a and b.
	cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
	if math.Abs(cross)/segLen > Epsilon {
		return false
	}
	// Projection parameter must fall within the segment.
	dot := (pt.X-a.X)*(b.X-a.X) + (pt.Y-a.Y)*(b.Y-a.Y)
	t := dot / (segLen * segLen)
	return t >= -Epsilon && t <= 1+Epsilon
}

// SegmentIntersection solves the 2x2 linear system for the lines through AB
// and EF and returns their intersection point. ok is false when the
// determinant yields a non-finite coordinate (parallel or coincident lines).
// When infinite is false, intersections outside either segment's parameter
// range are also rejected, with tolerance on axis-aligned segments.
func SegmentIntersection(a, b, e, f Point, infinite bool) (Point, bool) {
	a1 := b.Y - a.Y
	b1 := a.X - b.X
	c1 := a1*a.X + b1*a.Y

	a2 := f.Y - e.Y
	b2 := e.X - f.X
	c2 := a2*e.X + b2*e.Y

	det := a1*b2 - a2*b1
	x := (b2*c1 - b1*c2) / det
	y := (a1*c2 - a2*c1) / det
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return Point{}, false
	}

	if !infinite {
		p := Point{X: x, Y: y}
		if !withinRange(p.X, a.X, b.X) || !withinRange(p.Y, a.Y, b.Y) {
			return Point{}, false
		}
		if !withinRange(p.X, e.X, f.X) || !withinRange(p.Y, e.Y, f.Y) {
			return Point{}, false
		}
	}

	return Point{X: x, Y: y}, true
}

// withinRange checks v against the closed interval spanned by lo and hi.
// Axis-aligned segments collapse the interval to a single coordinate, which
// is compared with tolerance.
func withinRange(v, lo, hi float64) bool {
	if math.Abs(lo-hi) < Epsilon {
		return math.Abs(v-lo) < Epsilon
	}
	return v >= math.Min(lo, hi)-Epsilon && v <= math.Max(lo, hi)+Epsilon
}

// PolygonsIntersect reports whether two polygons overlap. For every edge
// pair it first looks for exact touching (an endpoint on the other edge or
// coincident endpoints). A touch alone is tangential contact and does not
// count as overlap; the decision is delegated to the parity of the touching
// vertex's neighbors: if the point just before the touch and the point just
// after it lie on opposite sides of the other polygon, the polygons cross
// there. Non-touching edge pairs are decided by a direct segment
// intersection test. Degenerate polygons never intersect anything.
func PolygonsIntersect(a, b Polygon, offsetA, offsetB Point) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}

	n, m := len(a), len(b)
	for i := 0; i < n; i++ {
		a1 := a[i].Add(offsetA)
		a2 := a[(i+1)%n].Add(offsetA)

		for j := 0; j < m; j++ {
			b1 := b[j].Add(offsetB)
			b2 := b[(j+1)%m].Add(offsetB)

			touching := false
			if OnSegment(b1, a1, a2) {
				touching = true
				if neighborsStraddle(b, j, offsetB, a, offsetA) {
					return true
				}
			}
			if OnSegment(b2, a1, a2) {
				touching = true
				if neighborsStraddle(b, (j+1)%m, offsetB, a, offsetA) {
					return true
				}
			}
			if OnSegment(a1, b1, b2) {
				touching = true
				if neighborsStraddle(a, i, offsetA, b, offsetB) {
					return true
				}
			}
			if OnSegment(a2, b1, b2) {
				touching = true
				if neighborsStraddle(a, (i+1)%n, offsetA, b, offsetB) {
					return true
				}
			}
			if touching {
				continue
			}

			if _, ok := SegmentIntersection(a1, a2, b1, b2, false); ok {
				return true
			}
		}
	}
	return false
}

// neighborsStraddle checks whether the vertices adjacent to poly[idx] lie on
// opposite sides of other: one strictly inside, one strictly outside. That is
// the signature of a genuine crossing at a shared vertex or edge, as opposed
// to tangential contact. Indeterminate neighbors (themselves on the boundary)
// do not count as either side.
func neighborsStraddle(poly Polygon, idx int, offset Point, other Polygon, otherOffset Point) bool {
	n := len(poly)
	prev := poly[(idx-1+n)%n].Add(offset)
	next := poly[(idx+1)%n].Add(offset)

	prevSide := PointInPolygon(prev, other, otherOffset)
	nextSide := PointInPolygon(next, other, otherOffset)

	return (prevSide == Inside && nextSide == Outside) ||
		(prevSide == Outside && nextSide == Inside)
}

// CheckPolygonCollision transforms both polygons to their poses, expands each
// by margin, and tests for overlap. The margin is applied once per shape
// before the intersection test.
func CheckPolygonCollision(polyA Polygon, ta Transform, polyB Polygon, tb Transform, margin float64) bool {
	wa := ta.Apply(polyA).Expand(margin)
	wb := tb.Apply(polyB).Expand(margin)
	return PolygonsIntersect(wa, wb, Point{}, Point{})
}

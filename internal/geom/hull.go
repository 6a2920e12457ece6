package geom

import (
	"math"
	"sort"
)

// dedupTolerance collapses points closer than this before hull construction.
const dedupTolerance = 1e-10

// ConvexHull reduces a point set to its convex hull using Andrew's monotone
// chain, ordered counter-clockwise. Points within dedupTolerance of an
// already-seen point are dropped first. Fewer than three unique points are
// returned unchanged: no hull is meaningful for them. Fully collinear input
// collapses to the two extreme points so the segment itself survives.
func ConvexHull(points []Point) Polygon {
	unique := dedupPoints(points)
	if len(unique) < 3 {
		return Polygon(unique)
	}

	sort.Slice(unique, func(i, j int) bool {
		if unique[i].X == unique[j].X {
			return unique[i].Y < unique[j].Y
		}
		return unique[i].X < unique[j].X
	})

	// All points on one vertical or horizontal line: keep the extremes so a
	// legitimate segment is not dropped by the chain's collinearity pops.
	if allSameX(unique) || allSameY(unique) {
		return Polygon{unique[0], unique[len(unique)-1]}
	}

	// Lower chain, left to right.
	var lower []Point
	for _, p := range unique {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	// Upper chain, right to left.
	var upper []Point
	for i := len(unique) - 1; i >= 0; i-- {
		p := unique[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// Concatenate, dropping each chain's last point (it starts the other).
	hull := make(Polygon, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

// HullArea returns the area of a hull via the shoelace formula.
func HullArea(hull Polygon) float64 {
	return hull.Area()
}

// RectangularHull builds the four-corner hull of an axis-aligned rectangle
// centered on the given point, ordered counter-clockwise.
func RectangularHull(width, height float64, center Point) Polygon {
	hw, hh := width/2, height/2
	return Polygon{
		{X: center.X - hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y + hh},
		{X: center.X - hw, Y: center.Y + hh},
	}
}

// cross returns the z-component of (b-a) x (c-a). Positive means a left
// (counter-clockwise) turn at b.
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func dedupPoints(points []Point) []Point {
	var unique []Point
	for _, p := range points {
		dup := false
		for _, u := range unique {
			if math.Abs(p.X-u.X) < dedupTolerance && math.Abs(p.Y-u.Y) < dedupTolerance {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, p)
		}
	}
	return unique
}

func allSameX(points []Point) bool {
	for _, p := range points[1:] {
		if math.Abs(p.X-points[0].X) >= dedupTolerance {
			return false
		}
	}
	return true
}

func allSameY(points []Point) bool {
	for _, p := range points[1:] {
		if math.Abs(p.Y-points[0].Y) >= dedupTolerance {
			return false
		}
	}
	return true
}

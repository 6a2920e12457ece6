package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquareAt(x, y, size float64) Polygon {
	return Polygon{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

func TestPointInPolygon_Inside(t *testing.T) {
	square := unitSquareAt(0, 0, 10)

	assert.Equal(t, Inside, PointInPolygon(Point{X: 5, Y: 5}, square, Point{}))
	assert.Equal(t, Inside, PointInPolygon(Point{X: 0.1, Y: 9.9}, square, Point{}))
}

func TestPointInPolygon_Outside(t *testing.T) {
	square := unitSquareAt(0, 0, 10)

	assert.Equal(t, Outside, PointInPolygon(Point{X: 15, Y: 5}, square, Point{}))
	assert.Equal(t, Outside, PointInPolygon(Point{X: -0.1, Y: 5}, square, Point{}))
	assert.Equal(t, Outside, PointInPolygon(Point{X: 5, Y: 10.1}, square, Point{}))
}

func TestPointInPolygon_VertexAndEdgeAreIndeterminate(t *testing.T) {
	// On-boundary points cannot be assigned a side. Callers use this to avoid
	// misclassifying tangential contact as overlap.
	square := unitSquareAt(0, 0, 10)

	assert.Equal(t, Indeterminate, PointInPolygon(Point{X: 0, Y: 0}, square, Point{}), "vertex")
	assert.Equal(t, Indeterminate, PointInPolygon(Point{X: 5, Y: 0}, square, Point{}), "edge midpoint")
	assert.Equal(t, Indeterminate, PointInPolygon(Point{X: 10, Y: 7}, square, Point{}), "right edge")
}

func TestPointInPolygon_OffsetShiftsThePolygon(t *testing.T) {
	square := unitSquareAt(0, 0, 10)

	// (15,5) is outside the square at the origin but inside it once shifted.
	assert.Equal(t, Outside, PointInPolygon(Point{X: 15, Y: 5}, square, Point{}))
	assert.Equal(t, Inside, PointInPolygon(Point{X: 15, Y: 5}, square, Point{X: 10, Y: 0}))
}

func TestPointInPolygon_DegeneratePolygonIsOutside(t *testing.T) {
	assert.Equal(t, Outside, PointInPolygon(Point{X: 0, Y: 0}, Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}, Point{}))
	assert.Equal(t, Outside, PointInPolygon(Point{X: 0, Y: 0}, nil, Point{}))
}

func TestContainment_String(t *testing.T) {
	assert.Equal(t, "inside", Inside.String())
	assert.Equal(t, "outside", Outside.String())
	assert.Equal(t, "indeterminate", Indeterminate.String())
}

func TestOnSegment(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}

	assert.True(t, OnSegment(Point{X: 5, Y: 0}, a, b))
	assert.True(t, OnSegment(a, a, b), "endpoint counts")
	assert.True(t, OnSegment(b, a, b), "endpoint counts")
	assert.False(t, OnSegment(Point{X: 5, Y: 0.001}, a, b), "off the line")
	assert.False(t, OnSegment(Point{X: 11, Y: 0}, a, b), "beyond the extent")
}

func TestSegmentIntersection_CrossingSegments(t *testing.T) {
	p, ok := SegmentIntersection(
		Point{X: 0, Y: 0}, Point{X: 10, Y: 10},
		Point{X: 0, Y: 10}, Point{X: 10, Y: 0},
		false,
	)

	require.True(t, ok)
	assert.InDelta(t, 5, p.X, 1e-9)
	assert.InDelta(t, 5, p.Y, 1e-9)
}

func TestSegmentIntersection_ParallelLinesDoNotIntersect(t *testing.T) {
	_, ok := SegmentIntersection(
		Point{X: 0, Y: 0}, Point{X: 10, Y: 0},
		Point{X: 0, Y: 1}, Point{X: 10, Y: 1},
		false,
	)
	assert.False(t, ok)

	_, ok = SegmentIntersection(
		Point{X: 0, Y: 0}, Point{X: 10, Y: 0},
		Point{X: 0, Y: 1}, Point{X: 10, Y: 1},
		true,
	)
	assert.False(t, ok, "parallel lines have no intersection even extended")
}

func TestSegmentIntersection_InfiniteExtendsBeyondSegments(t *testing.T) {
	// The lines cross at (5,5), outside the first segment's extent. The
	// bounded test rejects it; the infinite test reports it.
	a, b := Point{X: 0, Y: 0}, Point{X: 1, Y: 1}
	e, f := Point{X: 5, Y: 0}, Point{X: 5, Y: 10}

	_, ok := SegmentIntersection(a, b, e, f, false)
	assert.False(t, ok)

	p, ok := SegmentIntersection(a, b, e, f, true)
	require.True(t, ok)
	assert.InDelta(t, 5, p.X, 1e-9)
	assert.InDelta(t, 5, p.Y, 1e-9)
}

func TestPolygonsIntersect_OverlappingSquares(t *testing.T) {
	a := unitSquareAt(0, 0, 10)
	b := unitSquareAt(5, 5, 10)

	assert.True(t, PolygonsIntersect(a, b, Point{}, Point{}))
	assert.True(t, PolygonsIntersect(b, a, Point{}, Point{}), "overlap must be symmetric")
}

func TestPolygonsIntersect_DisjointSquares(t *testing.T) {
	a := unitSquareAt(0, 0, 10)
	b := unitSquareAt(100, 100, 10)

	assert.False(t, PolygonsIntersect(a, b, Point{}, Point{}))
	assert.False(t, PolygonsIntersect(b, a, Point{}, Point{}))
}

func TestPolygonsIntersect_SharedEdgeIsTangentialNotOverlap(t *testing.T) {
	// Two squares meeting exactly along x=10 touch but do not cross; their
	// neighbor vertices stay on the outside or on the boundary.
	a := unitSquareAt(0, 0, 10)
	b := unitSquareAt(10, 0, 10)

	assert.False(t, PolygonsIntersect(a, b, Point{}, Point{}))
	assert.False(t, PolygonsIntersect(b, a, Point{}, Point{}), "tangency must be symmetric")
}

func TestPolygonsIntersect_CrossingThroughVertexCountsAsOverlap(t *testing.T) {
	// A diamond straddling the square's right edge, crossing it exactly at
	// two of its own vertices. No edge pair intersects transversally, so the
	// decision falls to the touching vertices' neighbors: one inside, one
	// outside, which marks a genuine crossing.
	square := unitSquareAt(0, 0, 10)
	diamond := Polygon{
		{X: 10, Y: 3}, // on the square's right edge
		{X: 12, Y: 5}, // outside
		{X: 10, Y: 7}, // on the square's right edge
		{X: 8, Y: 5},  // inside
	}

	assert.True(t, PolygonsIntersect(square, diamond, Point{}, Point{}))
	assert.True(t, PolygonsIntersect(diamond, square, Point{}, Point{}))
}

func TestPolygonsIntersect_VertexTouchPointingAwayIsTangential(t *testing.T) {
	// The diamond's left vertex rests on the square's edge with the rest of
	// the body entirely outside. Both neighbors are outside, so no crossing.
	square := unitSquareAt(0, 0, 10)
	diamond := Polygon{
		{X: 10, Y: 5},
		{X: 14, Y: 1},
		{X: 18, Y: 5},
		{X: 14, Y: 9},
	}

	assert.False(t, PolygonsIntersect(square, diamond, Point{}, Point{}))
	assert.False(t, PolygonsIntersect(diamond, square, Point{}, Point{}))
}

func TestPolygonsIntersect_OffsetsApply(t *testing.T) {
	a := unitSquareAt(0, 0, 10)
	b := unitSquareAt(0, 0, 10)

	assert.True(t, PolygonsIntersect(a, b, Point{}, Point{X: 5, Y: 5}))
	assert.False(t, PolygonsIntersect(a, b, Point{}, Point{X: 50, Y: 50}))
}

func TestPolygonsIntersect_DegenerateNeverIntersects(t *testing.T) {
	segment := Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}}
	square := unitSquareAt(0, 0, 10)

	assert.False(t, PolygonsIntersect(segment, square, Point{}, Point{}))
	assert.False(t, PolygonsIntersect(square, segment, Point{}, Point{}))
	assert.False(t, PolygonsIntersect(nil, square, Point{}, Point{}))
}

func TestCheckPolygonCollision_SeparatedShapesDoNotCollide(t *testing.T) {
	// Two shapes at scale 50 whose centers are 300 apart cannot touch even
	// with the expansion margin.
	hull := RectangularHull(1, 1, Point{})
	ta := Transform{X: 100, Y: 100, Scale: 50}
	tb := Transform{X: 400, Y: 100, Scale: 50}

	assert.False(t, CheckPolygonCollision(hull, ta, hull, tb, 2))
}

func TestCheckPolygonCollision_NearCoincidentShapesCollide(t *testing.T) {
	// Centers 10 apart at scale 50: the hulls overlap heavily.
	hull := RectangularHull(1, 1, Point{})
	ta := Transform{X: 100, Y: 100, Scale: 50}
	tb := Transform{X: 110, Y: 100, Scale: 50}

	assert.True(t, CheckPolygonCollision(hull, ta, hull, tb, 2))
}

func TestCheckPolygonCollision_MarginClosesNarrowGaps(t *testing.T) {
	// A 50-unit and a 30-unit square with a 2-unit gap between facing edges.
	// With no margin they are clear; a 2-unit expansion per shape closes the
	// gap.
	hull := RectangularHull(1, 1, Point{})
	ta := Transform{X: 0, Y: 0, Scale: 50}
	tb := Transform{X: 42, Y: 0, Scale: 30}

	assert.False(t, CheckPolygonCollision(hull, ta, hull, tb, 0))
	assert.True(t, CheckPolygonCollision(hull, ta, hull, tb, 2))
}

func TestCheckPolygonCollision_RotationChangesOutcome(t *testing.T) {
	// A long thin rectangle clears its neighbor horizontally but sweeps into
	// it when rotated upright across the gap.
	bar := RectangularHull(1, 0.2, Point{})
	block := RectangularHull(1, 1, Point{})

	flat := Transform{X: 0, Y: 30, Rotation: 0, Scale: 100}
	upright := Transform{X: 0, Y: 30, Rotation: 90, Scale: 100}
	obstacle := Transform{X: 0, Y: -30, Scale: 40}

	assert.False(t, CheckPolygonCollision(bar, flat, block, obstacle, 0))
	assert.True(t, CheckPolygonCollision(bar, upright, block, obstacle, 0))
}

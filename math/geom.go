// math/geom.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2D struct {
	P0, P1 [2]float64
}

// EmptyExtent2D returns an Extent2D representing an empty bounding box.
func EmptyExtent2D() Extent2D {
	// Degenerate bounds
	return Extent2D{P0: [2]float64{1e30, 1e30}, P1: [2]float64{-1e30, -1e30}}
}

// Extent2DFromLatLons returns an Extent2D that bounds all of the provided
// positions; P0 holds the minimum latitude and longitude.
func Extent2DFromLatLons(pts []LatLon) Extent2D {
	e := EmptyExtent2D()
	for _, p := range pts {
		e = Union(e, p)
	}
	return e
}

func (e Extent2D) IsEmpty() bool {
	return e.P0[0] > e.P1[0] || e.P0[1] > e.P1[1]
}

func (e Extent2D) Inside(p [2]float64) bool {
	return p[0] >= e.P0[0] && p[0] <= e.P1[0] && p[1] >= e.P0[1] && p[1] <= e.P1[1]
}

// Overlaps returns true if the two provided Extent2Ds overlap.
func Overlaps(a Extent2D, b Extent2D) bool {
	x := (a.P1[0] >= b.P0[0]) && (a.P0[0] <= b.P1[0])
	y := (a.P1[1] >= b.P0[1]) && (a.P0[1] <= b.P1[1])
	return x && y
}

func Union(e Extent2D, p [2]float64) Extent2D {
	e.P0[0] = min(e.P0[0], p[0])
	e.P0[1] = min(e.P0[1], p[1])
	e.P1[0] = max(e.P1[0], p[0])
	e.P1[1] = max(e.P1[1], p[1])
	return e
}

///////////////////////////////////////////////////////////////////////////
// Polygons

// SignedArea returns the shoelace-formula area of the polygon given by
// pts, taking the first coordinate as x and the second as y. The polygon
// may or may not repeat its first vertex at the end; the result is the
// same either way.
func SignedArea[P ~[2]float64](pts []P) float64 {
	if len(pts) < 3 {
		return 0
	}
	var a float64
	for i := range pts {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		a += p0[0]*p1[1] - p1[0]*p0[1]
	}
	return a / 2
}

// IsClosed reports whether the polygon has at least three vertices and
// repeats its first vertex at the end.
func IsClosed[P ~[2]float64](pts []P) bool {
	return len(pts) >= 3 && pts[0] == pts[len(pts)-1]
}

// ClosePolygon returns a copy of pts with the first vertex appended if
// there are at least three vertices and the polygon is not already
// closed.
func ClosePolygon[P ~[2]float64](pts []P) []P {
	r := make([]P, len(pts), len(pts)+1)
	copy(r, pts)
	if len(r) >= 3 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

// PointInPolygon checks whether the given point is inside the given polygon
// using the even-odd rule; it includes the edge from pts[len(pts)-1] to
// pts[0], so a repeated closing vertex is harmless.
func PointInPolygon[P ~[2]float64](p P, pts []P) bool {
	if len(pts) < 3 {
		return false
	}
	inside := false
	for i := 0; i < len(pts); i++ {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		if (p0[1] <= p[1] && p[1] < p1[1]) || (p1[1] <= p[1] && p[1] < p0[1]) {
			x := p0[0] + (p[1]-p0[1])*(p1[0]-p0[0])/(p1[1]-p0[1])
			if x > p[0] {
				inside = !inside
			}
		}
	}
	return inside
}

// Centroid returns the average of the given points, or the origin if
// there are none.
func Centroid[P ~[2]float64](pts []P) [2]float64 {
	var c [2]float64
	for _, p := range pts {
		c[0] += p[0]
		c[1] += p[1]
	}
	if len(pts) > 0 {
		c[0] /= float64(len(pts))
		c[1] /= float64(len(pts))
	}
	return c
}

// render/clip.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package render

// Segment is a drawable line segment in pixel coordinates.
type Segment struct {
	P0 [2]float64 `json:"p0"`
	P1 [2]float64 `json:"p1"`
}

type outcode uint8

const (
	outLeft outcode = 1 << iota
	outRight
	outBottom // y > height
	outTop    // y < 0
)

func computeOutcode(p [2]float64, w, h float64) outcode {
	var c outcode
	if p[0] < 0 {
		c |= outLeft
	} else if p[0] > w {
		c |= outRight
	}
	if p[1] < 0 {
		c |= outTop
	} else if p[1] > h {
		c |= outBottom
	}
	return c
}

// InBounds reports whether p lies within [0,w]x[0,h], edges included.
func InBounds(p [2]float64, w, h float64) bool {
	return p[0] >= 0 && p[1] >= 0 && p[0] <= w && p[1] <= h
}

// ClipSegment clips the segment p0-p1 to the rectangle [0,w]x[0,h] using
// Cohen-Sutherland. It returns false if no part of the segment is
// visible.
func ClipSegment(p0, p1 [2]float64, w, h float64) (Segment, bool) {
	c0, c1 := computeOutcode(p0, w, h), computeOutcode(p1, w, h)

	// Each iteration moves one endpoint onto a boundary, so this
	// terminates after a handful of passes.
	for {
		if c0|c1 == 0 {
			return Segment{P0: p0, P1: p1}, true
		}
		if c0&c1 != 0 {
			return Segment{}, false
		}

		out := c0
		if out == 0 {
			out = c1
		}

		var p [2]float64
		dx, dy := p1[0]-p0[0], p1[1]-p0[1]
		switch {
		case out&outTop != 0:
			p = [2]float64{p0[0] + dx*(0-p0[1])/dy, 0}
		case out&outBottom != 0:
			p = [2]float64{p0[0] + dx*(h-p0[1])/dy, h}
		case out&outRight != 0:
			p = [2]float64{w, p0[1] + dy*(w-p0[0])/dx}
		case out&outLeft != 0:
			p = [2]float64{0, p0[1] + dy*(0-p0[0])/dx}
		}

		if out == c0 {
			p0, c0 = p, computeOutcode(p, w, h)
		} else {
			p1, c1 = p, computeOutcode(p, w, h)
		}
	}
}

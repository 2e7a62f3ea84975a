// sua/tessellate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"github.com/saber-t2c/groundcontrol/math"
)

const (
	// ArcSampleSpacingM is the maximum arc length between successive
	// tessellated points.
	ArcSampleSpacingM = 1000
	// MaxArcSteps bounds the work done for a single arc, whatever its
	// encoded radius.
	MaxArcSteps = 8192
)

// centidegrees converts an encoded arc angle to degrees. The catalog
// builder masks negative angles into 16 bits, so values past a full turn
// are treated as two's-complement negatives.
func centidegrees(cd uint16) float64 {
	v := int(cd)
	if v > 36000 {
		v -= 1 << 16
	}
	return float64(v) / 100
}

// TessellateArc returns points sampled along the arc segment s, from its
// start angle to its end angle, with at most ArcSampleSpacingM meters of
// arc between successive points. The first and last points are on the
// arc at the exact start and end angles.
func TessellateArc(s Segment) []math.LatLon {
	start := math.NormalizeDegrees(centidegrees(s.StartCD))
	end := math.NormalizeDegrees(centidegrees(s.EndCD))

	var delta, sign float64
	if s.Direction == SweepIncreasing {
		if end < start {
			end += 360
		}
		delta, sign = end-start, 1
	} else {
		if start < end {
			start += 360
		}
		delta, sign = start-end, -1
	}

	r := float64(s.RadiusM)
	arcLength := math.Radians(delta) * r
	steps := int(math.Max(2, math.Ceil(arcLength/ArcSampleSpacingM)))
	steps = math.Min(steps, MaxArcSteps)

	pts := make([]math.LatLon, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		angle := math.Radians(start + sign*delta*t)
		dx, dy := math.Cos(angle)*r, math.Sin(angle)*r
		pts = append(pts, math.OffsetMeters(s.Center, dx, dy))
	}
	return pts
}

// BuildRing flattens the ring's segments into a polygon: lines contribute
// their endpoints and arcs their tessellated points, with exact repeats of
// the previous point dropped. The result is closed by repeating its first
// point whenever it has at least two points and isn't already closed, so
// a single line segment yields a three-point out-and-back ring.
func BuildRing(r Ring) []math.LatLon {
	var pts []math.LatLon
	add := func(p math.LatLon) {
		if len(pts) > 0 && pts[len(pts)-1] == p {
			return
		}
		pts = append(pts, p)
	}

	for _, seg := range r.Segments {
		switch seg.Kind {
		case SegmentLine:
			add(seg.Start)
			add(seg.End)
		case SegmentArc:
			for _, p := range TessellateArc(seg) {
				add(p)
			}
		}
	}

	if len(pts) >= 2 && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	return pts
}

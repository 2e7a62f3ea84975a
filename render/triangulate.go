// render/triangulate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package render

import (
	"github.com/mmp/earcut-go"
)

// Triangulate returns fill triangles for the simple polygon given by pts
// in pixel coordinates. A repeated closing vertex is ignored.
func Triangulate(pts [][2]float64) [][3][2]float64 {
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	if len(pts) < 3 {
		return nil
	}

	vertices := make([]earcut.Vertex, len(pts))
	for i, p := range pts {
		vertices[i].P = p
	}

	var tris [][3][2]float64
	for _, tri := range earcut.Triangulate(earcut.Polygon{Rings: [][]earcut.Vertex{vertices}}) {
		var t [3][2]float64
		for i, v := range tri.Vertices {
			t[i] = v.P
		}
		tris = append(tris, t)
	}
	return tris
}

// render/scene.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package render

import (
	"github.com/saber-t2c/groundcontrol/geofence"
	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

type Layer int

const (
	LayerKeepOut Layer = iota
	LayerStayIn
	LayerLine
)

func (l Layer) String() string {
	switch l {
	case LayerKeepOut:
		return "keep_out"
	case LayerStayIn:
		return "stay_in"
	case LayerLine:
		return "line"
	default:
		return "unknown"
	}
}

func (l Layer) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// ScenePolygon holds everything needed to paint one keep-out or stay-in
// area.
type ScenePolygon struct {
	ID    string `json:"id"`
	Layer Layer  `json:"layer"`
	// Edges are the clipped boundary segments, including the edge from
	// the last vertex back to the first.
	Edges []Segment `json:"edges"`
	// Vertices are the projected vertices that fall inside the image.
	Vertices [][2]float64    `json:"vertices"`
	Fill     [][3][2]float64 `json:"fill,omitempty"`
}

type SceneLine struct {
	ID      string        `json:"id"`
	Axis    geofence.Axis `json:"axis"`
	Value   float64       `json:"value"`
	Segment Segment       `json:"segment"`
}

type SceneLabel struct {
	Text   string     `json:"text"`
	Layer  Layer      `json:"layer"`
	Anchor [2]float64 `json:"anchor"`
}

// Scene is the projected, clipped form of a geofence document for an
// image of the given size.
type Scene struct {
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	KeepOut []ScenePolygon `json:"keep_out"`
	StayIn  []ScenePolygon `json:"stay_in"`
	Lines   []SceneLine    `json:"lines"`
	Labels  []SceneLabel   `json:"labels"`
}

// BuildScene projects and clips the document's polygons and crossing
// lines. Non-finite coordinates are dropped, polygons left with fewer
// than three points are skipped, and crossing lines that fall entirely
// outside the image are omitted.
func BuildScene(doc geofence.Document, proj Projector, w, h float64) Scene {
	s := Scene{
		Width:   w,
		Height:  h,
		KeepOut: []ScenePolygon{},
		StayIn:  []ScenePolygon{},
		Lines:   []SceneLine{},
		Labels:  []SceneLabel{},
	}

	for _, e := range doc.KeepOut {
		if p, ok := s.addPolygon(e, LayerKeepOut, proj); ok {
			s.KeepOut = append(s.KeepOut, p)
		}
	}
	for _, e := range doc.StayIn {
		if p, ok := s.addPolygon(e, LayerStayIn, proj); ok {
			s.StayIn = append(s.StayIn, p)
		}
	}

	for _, l := range doc.Lines {
		if !math.IsFinite(l.Value) {
			continue
		}
		axis := geofence.ParseAxis(l.Axis)

		var p0, p1 [2]float64
		if axis == geofence.AxisEW {
			y := proj.Y(l.Value)
			p0, p1 = [2]float64{0, y}, [2]float64{w, y}
		} else {
			x := proj.X(l.Value)
			p0, p1 = [2]float64{x, 0}, [2]float64{x, h}
		}

		seg, ok := ClipSegment(p0, p1, w, h)
		if !ok {
			continue
		}
		s.Lines = append(s.Lines, SceneLine{ID: l.ID, Axis: axis, Value: l.Value, Segment: seg})
		s.addLabel(l.ID, LayerLine, [][2]float64{p0, p1})
	}

	return s
}

func (s *Scene) addPolygon(e geofence.DocumentEntry, layer Layer, proj Projector) (ScenePolygon, bool) {
	var pts [][2]float64
	for _, p := range e.Polygon {
		if math.IsFinite(p[0]) && math.IsFinite(p[1]) {
			pts = append(pts, proj.Project(p))
		}
	}
	if len(pts) < 3 {
		return ScenePolygon{}, false
	}

	sp := ScenePolygon{
		ID:       e.ID,
		Layer:    layer,
		Edges:    []Segment{},
		Vertices: [][2]float64{},
		Fill:     Triangulate(pts),
	}
	for _, p := range pts {
		if InBounds(p, s.Width, s.Height) {
			sp.Vertices = append(sp.Vertices, p)
		}
	}
	for i := range pts {
		if seg, ok := ClipSegment(pts[i], pts[(i+1)%len(pts)], s.Width, s.Height); ok {
			sp.Edges = append(sp.Edges, seg)
		}
	}

	label := e.Label
	if label == "" {
		label = e.ID
	}
	s.addLabel(label, layer, pts)

	return sp, true
}

// addLabel anchors text at the mean of the points that fall inside the
// image; nothing is added if there are none.
func (s *Scene) addLabel(text string, layer Layer, pts [][2]float64) {
	if text == "" {
		return
	}
	in := util.FilterSlice(pts, func(p [2]float64) bool { return InBounds(p, s.Width, s.Height) })
	if len(in) == 0 {
		return
	}
	s.Labels = append(s.Labels, SceneLabel{Text: text, Layer: layer, Anchor: math.Centroid(in)})
}

// render/scene_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package render

import (
	gomath "math"
	"testing"

	"github.com/saber-t2c/groundcontrol/geofence"
	"github.com/saber-t2c/groundcontrol/math"
)

// identity maps longitude to x and latitude to y.
var identity = Projector{A: 1, B: 0, C: 1, D: 0}

func TestBuildScene(t *testing.T) {
	doc := geofence.Document{
		KeepOut: []geofence.DocumentEntry{
			{
				ID:      "keep_out_1",
				Polygon: []math.LatLon{{10, 10}, {10, 50}, {50, 50}, {50, 10}, {10, 10}},
			},
			{ID: "keep_out_2", Polygon: []math.LatLon{{10, 10}, {20, 20}}},
			{ID: "keep_out_3", Polygon: []math.LatLon{{10, 10}, {20, gomath.NaN()}, {30, 10}}},
		},
		StayIn: []geofence.DocumentEntry{
			{
				ID:      "stay_in_1",
				Label:   "Range",
				Polygon: []math.LatLon{{200, 200}, {300, 200}, {300, 300}},
			},
		},
		Lines: []geofence.DocumentLine{
			{ID: "line1", Axis: "n/s", Value: 40},
			{ID: "line2", Axis: "e/w", Value: 25},
			{ID: "line3", Axis: "N/S", Value: 150},
			{ID: "line4", Axis: "E/W", Value: gomath.NaN()},
		},
	}

	s := BuildScene(doc, identity, 100, 100)

	if len(s.KeepOut) != 1 {
		t.Fatalf("got %d keep-out polygons, want 1", len(s.KeepOut))
	}
	ko := s.KeepOut[0]
	if ko.ID != "keep_out_1" || ko.Layer != LayerKeepOut {
		t.Errorf("got keep-out %q layer %s", ko.ID, ko.Layer)
	}
	if len(ko.Edges) != 5 {
		t.Errorf("got %d edges, want 5", len(ko.Edges))
	}
	if want := (Segment{P0: [2]float64{10, 50}, P1: [2]float64{10, 10}}); len(ko.Edges) == 5 && ko.Edges[3] != want {
		t.Errorf("edge 3: got %v, want %v", ko.Edges[3], want)
	}
	if len(ko.Vertices) != 5 {
		t.Errorf("got %d vertex markers, want 5", len(ko.Vertices))
	}
	if len(ko.Fill) != 2 {
		t.Errorf("got %d fill triangles, want 2", len(ko.Fill))
	}

	if len(s.StayIn) != 1 {
		t.Fatalf("got %d stay-in polygons, want 1", len(s.StayIn))
	}
	if si := s.StayIn[0]; len(si.Edges) != 0 || len(si.Vertices) != 0 {
		t.Errorf("off-image stay-in: got %d edges and %d vertices, want none", len(si.Edges), len(si.Vertices))
	}

	wantLines := []SceneLine{
		{ID: "line1", Axis: geofence.AxisNS, Value: 40, Segment: Segment{P0: [2]float64{40, 0}, P1: [2]float64{40, 100}}},
		{ID: "line2", Axis: geofence.AxisEW, Value: 25, Segment: Segment{P0: [2]float64{0, 25}, P1: [2]float64{100, 25}}},
	}
	if len(s.Lines) != len(wantLines) {
		t.Fatalf("got %d lines, want %d", len(s.Lines), len(wantLines))
	}
	for i := range wantLines {
		if s.Lines[i] != wantLines[i] {
			t.Errorf("line %d: got %+v, want %+v", i, s.Lines[i], wantLines[i])
		}
	}

	wantLabels := []SceneLabel{
		{Text: "keep_out_1", Layer: LayerKeepOut, Anchor: [2]float64{26, 26}},
		{Text: "line1", Layer: LayerLine, Anchor: [2]float64{40, 50}},
		{Text: "line2", Layer: LayerLine, Anchor: [2]float64{50, 25}},
	}
	if len(s.Labels) != len(wantLabels) {
		t.Fatalf("got labels %+v, want %+v", s.Labels, wantLabels)
	}
	for i := range wantLabels {
		if s.Labels[i] != wantLabels[i] {
			t.Errorf("label %d: got %+v, want %+v", i, s.Labels[i], wantLabels[i])
		}
	}
}

func TestBuildSceneEmpty(t *testing.T) {
	s := BuildScene(geofence.Document{}, CONUSProjector, 2400, 1500)
	if s.KeepOut == nil || s.StayIn == nil || s.Lines == nil || s.Labels == nil {
		t.Errorf("expected empty, non-nil lists: %+v", s)
	}
}

func TestTriangulate(t *testing.T) {
	area := func(tri [3][2]float64) float64 {
		a, b, c := tri[0], tri[1], tri[2]
		return math.Abs((b[0]-a[0])*(c[1]-a[1])-(c[0]-a[0])*(b[1]-a[1])) / 2
	}

	square := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	for _, pts := range [][][2]float64{square, append(square, square[0])} {
		tris := Triangulate(pts)
		if len(tris) != 2 {
			t.Errorf("%d points: got %d triangles, want 2", len(pts), len(tris))
		}
		sum := 0.
		for _, tri := range tris {
			sum += area(tri)
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Errorf("%d points: triangles cover %f, want 100", len(pts), sum)
		}
	}

	if tris := Triangulate(square[:2]); tris != nil {
		t.Errorf("two points: got %v, want nil", tris)
	}
}

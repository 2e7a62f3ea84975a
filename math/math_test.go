// math/math_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func TestPointInPolygon(t *testing.T) {
	type testCase struct {
		name     string
		point    LatLon
		polygon  []LatLon
		expected bool
	}

	testCases := []testCase{
		{
			name:     "PointInsideSimpleSquare",
			point:    LatLon{1, 1},
			polygon:  []LatLon{{0, 0}, {0, 2}, {2, 2}, {2, 0}},
			expected: true,
		},
		{
			name:     "PointInsideClosedSquare",
			point:    LatLon{1, 1},
			polygon:  []LatLon{{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}},
			expected: true,
		},
		{
			name:     "PointOutsideSimpleSquare",
			point:    LatLon{3, 3},
			polygon:  []LatLon{{0, 0}, {0, 2}, {2, 2}, {2, 0}},
			expected: false,
		},
		{
			name:     "PointByVertex",
			point:    LatLon{-0.001, 0},
			polygon:  []LatLon{{0, 0}, {0, 2}, {2, 2}, {2, 0}},
			expected: false,
		},
		{
			name:     "PointInsideComplexPolygon",
			point:    LatLon{3, 3},
			polygon:  []LatLon{{0, 0}, {0, 6}, {6, 6}, {6, 0}, {3, 3}},
			expected: true,
		},
		{
			name:     "TooFewVertices",
			point:    LatLon{0.5, 0.5},
			polygon:  []LatLon{{0, 0}, {1, 1}},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := PointInPolygon(tc.point, tc.polygon)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v for point %v and polygon %v",
					tc.expected, result, tc.point, tc.polygon)
			}
		})
	}
}

func TestSignedArea(t *testing.T) {
	for _, test := range []struct {
		pts  []LatLon
		area float64
	}{
		{pts: []LatLon{{0, 0}, {1, 0}, {0, 1}}, area: 0.5},
		{pts: []LatLon{{0, 0}, {0, 1}, {1, 0}}, area: -0.5},
		{pts: []LatLon{{0, 0}, {1, 0}, {0, 1}, {0, 0}}, area: 0.5},
		{pts: []LatLon{{0, 0}, {1, 1}, {2, 2}, {3, 3}}, area: 0},
		{pts: []LatLon{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, area: 4},
		{pts: []LatLon{{0, 0}, {2, 0}}, area: 0},
	} {
		if a := SignedArea(test.pts); a != test.area {
			t.Errorf("SignedArea(%v) = %v, want %v", test.pts, a, test.area)
		}
	}
}

func TestClosePolygon(t *testing.T) {
	open := []LatLon{{0, 0}, {1, 0}, {0, 1}}
	closed := ClosePolygon(open)
	if len(closed) != 4 || closed[3] != open[0] {
		t.Errorf("ClosePolygon(%v) = %v", open, closed)
	}
	if len(open) != 3 {
		t.Errorf("ClosePolygon modified its input: %v", open)
	}
	if !IsClosed(closed) {
		t.Errorf("IsClosed(%v) = false", closed)
	}

	again := ClosePolygon(closed)
	if len(again) != 4 {
		t.Errorf("ClosePolygon on closed polygon gave %v", again)
	}

	short := ClosePolygon([]LatLon{{0, 0}, {1, 1}})
	if len(short) != 2 {
		t.Errorf("ClosePolygon closed a two-point polyline: %v", short)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	for _, test := range []struct{ in, out float64 }{
		{0, 0}, {90, 90}, {360, 0}, {370, 10}, {-90, 270}, {-360, 0}, {720.5, 0.5},
	} {
		if got := NormalizeDegrees(test.in); Abs(got-test.out) > 1e-9 {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", test.in, got, test.out)
		}
	}
}

func TestOffsetMeters(t *testing.T) {
	p := OffsetMeters(LatLon{0, 0}, 0, MetersPerDegreeLatitude)
	if Abs(p[0]-1) > 1e-12 || p[1] != 0 {
		t.Errorf("one degree north of origin: got %v", p)
	}

	p = OffsetMeters(LatLon{60, 10}, MetersPerDegreeLatitude/2, 0)
	if Abs(p[1]-11) > 1e-9 || p[0] != 60 {
		t.Errorf("east offset at 60N: got %v", p)
	}

	// The cosine guard keeps things finite at the pole.
	p = OffsetMeters(LatLon{90, 0}, 1000, 0)
	if IsNaN(p[1]) || Abs(p[1]) > 1 {
		t.Errorf("offset at pole: got %v", p)
	}
}

func TestMetersDistance(t *testing.T) {
	// JFK to PHL is roughly 151km
	jfk, phl := LatLon{40.6398, -73.7789}, LatLon{39.8719, -75.2411}
	if d := MetersDistance(jfk, phl); d < 148000 || d > 154000 {
		t.Errorf("JFK-PHL distance %f out of expected range", d)
	}
}

func TestExtent2D(t *testing.T) {
	e := Extent2DFromLatLons([]LatLon{{1, 2}, {-1, 5}, {3, -4}})
	if e.P0 != [2]float64{-1, -4} || e.P1 != [2]float64{3, 5} {
		t.Errorf("unexpected extent %+v", e)
	}
	if !e.Inside([2]float64{0, 0}) || e.Inside([2]float64{4, 0}) {
		t.Errorf("Inside gave wrong answers for %+v", e)
	}
	if !EmptyExtent2D().IsEmpty() || e.IsEmpty() {
		t.Errorf("IsEmpty gave wrong answers")
	}

	other := Extent2D{P0: [2]float64{2, 4}, P1: [2]float64{10, 10}}
	if !Overlaps(e, other) {
		t.Errorf("expected %+v and %+v to overlap", e, other)
	}
	far := Extent2D{P0: [2]float64{20, 20}, P1: [2]float64{30, 30}}
	if Overlaps(e, far) {
		t.Errorf("expected %+v and %+v to not overlap", e, far)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2.5, 0., 3.) != 2.5 {
		t.Errorf("Clamp gave unexpected results")
	}
}

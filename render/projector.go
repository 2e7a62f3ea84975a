// render/projector.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package render

import (
	"errors"
	"fmt"

	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

var ErrDegenerateFit = errors.New("landmarks do not determine a projection")

// Projector is an affine, axis-separable mapping from latitude-longitude
// to image pixels: x = A*lon + B, y = C*lat + D. y grows downward.
type Projector struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
}

// CONUSProjector is the calibration for the continental US base map.
var CONUSProjector = Projector{
	A: 39.32666855913076,
	B: 4971.910497641973,
	C: -49.40047812453783,
	D: 2558.2141514910113,
}

func (p Projector) Project(pt math.LatLon) [2]float64 {
	return [2]float64{p.X(pt.Longitude()), p.Y(pt.Latitude())}
}

// X returns the pixel column for the given longitude.
func (p Projector) X(lon float64) float64 { return p.A*lon + p.B }

// Y returns the pixel row for the given latitude.
func (p Projector) Y(lat float64) float64 { return p.C*lat + p.D }

func (p Projector) String() string {
	return fmt.Sprintf("x = %.6f*lon + %.3f, y = %.6f*lat + %.3f", p.A, p.B, p.C, p.D)
}

// Landmark ties a known position to where it appears on the base map.
type Landmark struct {
	Name  string      `json:"name"`
	Pixel [2]float64  `json:"pixel"`
	Pos   math.LatLon `json:"pos"`
}

// CONUSLandmarks are the reference cities used to calibrate the CONUS
// base map.
var CONUSLandmarks = []Landmark{
	{Name: "Los Angeles", Pixel: [2]float64{323, 887}, Pos: math.LatLon{34.0522, -118.2437}},
	{Name: "Seattle", Pixel: [2]float64{162, 180}, Pos: math.LatLon{47.6062, -122.3321}},
	{Name: "Chicago", Pixel: [2]float64{1527, 496}, Pos: math.LatLon{41.8781, -87.6298}},
	{Name: "New York", Pixel: [2]float64{2062, 556}, Pos: math.LatLon{40.7128, -74.0060}},
	{Name: "Miami", Pixel: [2]float64{1820, 1263}, Pos: math.LatLon{25.7617, -80.1918}},
	{Name: "Austin", Pixel: [2]float64{1128, 1063}, Pos: math.LatLon{30.2672, -97.7431}},
}

// FitProjector returns the least-squares projector for the given
// landmarks. The x and y axes are fit independently.
func FitProjector(landmarks []Landmark) (Projector, error) {
	if len(landmarks) < 2 {
		return Projector{}, fmt.Errorf("%d landmarks: %w", len(landmarks), ErrDegenerateFit)
	}

	a, b, ok := fitLine(util.MapSlice(landmarks, func(l Landmark) [2]float64 {
		return [2]float64{l.Pos.Longitude(), l.Pixel[0]}
	}))
	if !ok {
		return Projector{}, fmt.Errorf("longitudes: %w", ErrDegenerateFit)
	}
	c, d, ok := fitLine(util.MapSlice(landmarks, func(l Landmark) [2]float64 {
		return [2]float64{l.Pos.Latitude(), l.Pixel[1]}
	}))
	if !ok {
		return Projector{}, fmt.Errorf("latitudes: %w", ErrDegenerateFit)
	}
	return Projector{A: a, B: b, C: c, D: d}, nil
}

// fitLine returns the slope and intercept of the least-squares line
// through the (x, y) samples.
func fitLine(pts [][2]float64) (m, k float64, ok bool) {
	n := float64(len(pts))
	var sx, sy float64
	for _, p := range pts {
		sx += p[0]
		sy += p[1]
	}
	mx, my := sx/n, sy/n

	var sxx, sxy float64
	for _, p := range pts {
		dx := p[0] - mx
		sxx += dx * dx
		sxy += dx * (p[1] - my)
	}
	if sxx < 1e-12 {
		return 0, 0, false
	}
	m = sxy / sxx
	return m, my - m*mx, true
}

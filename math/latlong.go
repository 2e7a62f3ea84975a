// math/latlong.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

// MetersPerDegreeLatitude is the flat-earth scale used for local
// meters<->degrees conversions around a reference point.
const MetersPerDegreeLatitude = 111320

// LatLon represents a 2D point on the Earth in latitude-longitude, stored
// in degrees.
// Important: unlike the screen-oriented points elsewhere, 0 is latitude
// and 1 is longitude, matching the [lat, lon] pairs of the geofence
// documents.
type LatLon [2]float64

func (p LatLon) Latitude() float64 {
	return p[0]
}

func (p LatLon) Longitude() float64 {
	return p[1]
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p LatLon) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[0], p[1])
}

// DMSString returns the position in degrees minutes, seconds, e.g.
// N039.51.39.243,W075.16.29.511
func (p LatLon) DMSString() string {
	format := func(v float64) string {
		s := fmt.Sprintf("%03d", int(v))
		v -= Floor(v)
		v *= 60
		s += fmt.Sprintf(".%02d", int(v))
		v -= Floor(v)
		v *= 60
		s += fmt.Sprintf(".%02d", int(v))
		v -= Floor(v)
		v *= 1000
		s += fmt.Sprintf(".%03d", int(v))
		return s
	}

	var s string
	if p[0] > 0 {
		s = "N"
	} else {
		s = "S"
	}
	s += format(Abs(p[0]))

	if p[1] > 0 {
		s += ",E"
	} else {
		s += ",W"
	}
	s += format(Abs(p[1]))

	return s
}

// MetersPerDegreeLongitude returns the east-west scale at the given
// latitude. Near the poles the cosine is guarded to 1 so that the result
// stays finite.
func MetersPerDegreeLongitude(lat float64) float64 {
	c := Cos(Radians(lat))
	if Abs(c) < 1e-12 {
		c = 1
	}
	return MetersPerDegreeLatitude * c
}

// OffsetMeters returns the point displaced dx meters east and dy meters
// north of p. It assumes a (locally) flat earth.
func OffsetMeters(p LatLon, dx, dy float64) LatLon {
	return LatLon{
		p[0] + dy/MetersPerDegreeLatitude,
		p[1] + dx/MetersPerDegreeLongitude(p[0]),
	}
}

// MetersDistance returns the great-circle distance in meters between two
// provided lat-long coordinates.
func MetersDistance(a LatLon, b LatLon) float64 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	const R = 6371000 // metres
	lat1, lon1 := Radians(a[0]), Radians(a[1])
	lat2, lon2 := Radians(b[0]), Radians(b[1])
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))
	return R * c
}

// ValidLatLon reports whether p is a finite position within the usual
// latitude/longitude ranges.
func ValidLatLon(p LatLon) bool {
	if gomath.IsNaN(p[0]) || gomath.IsNaN(p[1]) || gomath.IsInf(p[0], 0) || gomath.IsInf(p[1], 0) {
		return false
	}
	return p[0] >= -90 && p[0] <= 90 && p[1] >= -180 && p[1] <= 180
}

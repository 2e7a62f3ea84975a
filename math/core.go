// math/core.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

// A handful of thin wrappers follow so that callers can do all of their
// geometry through this package rather than mixing it with the standard
// math package.

func Sin(a float64) float64   { return gomath.Sin(a) }
func Cos(a float64) float64   { return gomath.Cos(a) }
func Ceil(v float64) float64  { return gomath.Ceil(v) }
func Floor(v float64) float64 { return gomath.Floor(v) }
func Round(v float64) float64 { return gomath.Round(v) }
func IsNaN(v float64) bool    { return gomath.IsNaN(v) }

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !gomath.IsNaN(v) && !gomath.IsInf(v, 0)
}

// NormalizeDegrees returns the given angle remapped to [0,360).
func NormalizeDegrees(d float64) float64 {
	d = gomath.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 { // -tiny + 360 rounds to 360
		d = 0
	}
	return d
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

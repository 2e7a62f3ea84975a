// geofence/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geofence

import (
	"errors"

	"github.com/saber-t2c/groundcontrol/sua"
)

var (
	ErrInsufficientVertices = errors.New("Polygon needs at least 3 vertices")
	ErrDegeneratePolygon    = errors.New("Polygon has zero area")
	ErrInvalidCoordinate    = errors.New("Invalid latitude/longitude")
	ErrCapacityExceeded     = errors.New("No room for another area")
	ErrAlreadySet           = errors.New("Stay-in area already set")
	ErrLineOutOfRange       = errors.New("Line value must be between -180 and 180")
	ErrLineValue            = errors.New("Line value is not a number")
	ErrInvalidSlot          = errors.New("Line slot must be between 1 and 4")
	ErrNoSuchEntry          = errors.New("No such geofence entry")
	// ErrUnusableGeometry is shared with the catalog decoder so that
	// either package's value matches with errors.Is.
	ErrUnusableGeometry = sua.ErrUnusableGeometry
)

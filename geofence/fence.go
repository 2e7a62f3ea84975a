// geofence/fence.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geofence

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/saber-t2c/groundcontrol/log"
	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

const (
	MaxKeepOut = 6
	MaxStayIn  = 1
	NumLines   = 4
	// MaxLineValue bounds crossing-line values in either direction.
	MaxLineValue = 180
)

// Entry is a stored keep-out or stay-in polygon. Polygon is always closed.
type Entry struct {
	ID      string
	Label   string
	Polygon []math.LatLon
	Source  Source
}

func (e Entry) clone() Entry {
	e.Polygon = slices.Clone(e.Polygon)
	return e
}

type Axis string

const (
	// AxisNS lines are meridians: the value is a longitude.
	AxisNS Axis = "N/S"
	// AxisEW lines are parallels: the value is a latitude.
	AxisEW Axis = "E/W"
)

// ParseAxis returns AxisEW if s is "E/W" in any case and AxisNS otherwise.
func ParseAxis(s string) Axis {
	if strings.EqualFold(strings.TrimSpace(s), string(AxisEW)) {
		return AxisEW
	}
	return AxisNS
}

type Line struct {
	ID    string
	Axis  Axis
	Value float64
}

type lineState int

const (
	lineEmpty lineState = iota
	lineValid
	lineInvalid
)

type lineSlot struct {
	state lineState
	line  Line
}

// Fence is the editable geofence for a single mission: up to six keep-out
// polygons, an optional stay-in polygon and four crossing-line slots.
// Every mutating method either succeeds or returns an error and leaves
// the fence unchanged. A Fence is not safe for concurrent use.
type Fence struct {
	keepOut []Entry
	stayIn  *Entry
	lines   [NumLines]lineSlot
	lg      *log.Logger
}

func NewFence(lg *log.Logger) *Fence {
	return &Fence{lg: lg}
}

// checkPolygon validates a candidate boundary and returns its closed form.
func checkPolygon(points []math.LatLon) ([]math.LatLon, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%d vertices: %w", len(points), ErrInsufficientVertices)
	}
	for i, p := range points {
		if !math.ValidLatLon(p) {
			return nil, fmt.Errorf("vertex %d %v: %w", i, p, ErrInvalidCoordinate)
		}
	}
	if math.SignedArea(points) == 0 {
		return nil, ErrDegeneratePolygon
	}
	return math.ClosePolygon(points), nil
}

// entryID returns an unused id for a new entry: the lowest free numbered
// id for hand-drawn polygons and the source's name for areas.
func (f *Fence) entryID(prefix string, src Source) string {
	var base string
	switch src.Kind {
	case SourceHand:
		for n := 1; ; n++ {
			if id := prefix + strconv.Itoa(n); !f.haveID(id) {
				return id
			}
		}
	case SourceCatalog, SourcePrebuilt:
		base = src.String()
	default:
		panic("unhandled source kind " + src.Kind.String())
	}

	id := base
	for n := 2; f.haveID(id); n++ {
		id = base + "#" + strconv.Itoa(n)
	}
	return id
}

func (f *Fence) haveID(id string) bool {
	return slices.ContainsFunc(f.keepOut, func(e Entry) bool { return e.ID == id }) ||
		(f.stayIn != nil && f.stayIn.ID == id)
}

// AddKeepOut adds a keep-out polygon and returns its id.
func (f *Fence) AddKeepOut(points []math.LatLon, label string, src Source) (string, error) {
	return f.addKeepOut("", points, label, src)
}

func (f *Fence) addKeepOut(id string, points []math.LatLon, label string, src Source) (string, error) {
	poly, err := checkPolygon(points)
	if err != nil {
		return "", err
	}
	if len(f.keepOut) >= MaxKeepOut {
		return "", fmt.Errorf("%d keep-out areas: %w", len(f.keepOut), ErrCapacityExceeded)
	}

	if id == "" {
		id = f.entryID("keep_out_", src)
	}
	f.keepOut = append(f.keepOut, Entry{ID: id, Label: label, Polygon: poly, Source: src})
	f.lg.Debugf("geofence: added keep-out %s (%s, %d points)", id, src, len(poly))
	return id, nil
}

// RemoveKeepOut removes the keep-out polygon with the given id.
func (f *Fence) RemoveKeepOut(id string) error {
	i := slices.IndexFunc(f.keepOut, func(e Entry) bool { return e.ID == id })
	if i == -1 {
		return fmt.Errorf("%s: %w", id, ErrNoSuchEntry)
	}
	f.keepOut = slices.Delete(f.keepOut, i, i+1)
	f.lg.Debugf("geofence: removed keep-out %s", id)
	return nil
}

// SetStayIn sets the stay-in polygon and returns its id. It fails with
// ErrAlreadySet if one is present; ClearStayIn must be called first.
func (f *Fence) SetStayIn(points []math.LatLon, label string, src Source) (string, error) {
	return f.setStayIn("", points, label, src)
}

func (f *Fence) setStayIn(id string, points []math.LatLon, label string, src Source) (string, error) {
	if f.stayIn != nil {
		return "", fmt.Errorf("%s: %w", f.stayIn.ID, ErrAlreadySet)
	}
	poly, err := checkPolygon(points)
	if err != nil {
		return "", err
	}

	if id == "" {
		id = f.entryID("stay_in_", src)
	}
	f.stayIn = &Entry{ID: id, Label: label, Polygon: poly, Source: src}
	f.lg.Debugf("geofence: set stay-in %s (%s, %d points)", id, src, len(poly))
	return id, nil
}

func (f *Fence) ClearStayIn() {
	if f.stayIn != nil {
		f.lg.Debugf("geofence: cleared stay-in %s", f.stayIn.ID)
	}
	f.stayIn = nil
}

func areaPolygon(area Area) ([]math.LatLon, error) {
	poly, err := area.Polygon()
	if err != nil {
		if !errors.Is(err, ErrUnusableGeometry) {
			err = fmt.Errorf("%w: %w", ErrUnusableGeometry, err)
		}
		return nil, err
	}
	if len(poly) < 3 {
		return nil, fmt.Errorf("%s: %d points: %w", area.Label(), len(poly), ErrUnusableGeometry)
	}
	return poly, nil
}

// ToggleKeepOutFromArea removes the area's keep-out polygon if it is
// present and adds it otherwise. It returns whether the area is now part
// of the fence.
func (f *Fence) ToggleKeepOutFromArea(area Area) (bool, error) {
	src := area.Source()
	if i := slices.IndexFunc(f.keepOut, func(e Entry) bool { return e.Source == src }); i != -1 {
		return false, f.RemoveKeepOut(f.keepOut[i].ID)
	}

	poly, err := areaPolygon(area)
	if err != nil {
		return false, err
	}
	if _, err := f.AddKeepOut(poly, area.Label(), src); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleStayInFromArea clears the stay-in polygon if it came from area and
// otherwise sets it from area. A stay-in polygon from elsewhere is not
// replaced; ErrAlreadySet is returned.
func (f *Fence) ToggleStayInFromArea(area Area) (bool, error) {
	src := area.Source()
	if f.stayIn != nil && f.stayIn.Source == src {
		f.ClearStayIn()
		return false, nil
	}

	if f.stayIn != nil {
		return false, fmt.Errorf("%s: %w", f.stayIn.ID, ErrAlreadySet)
	}
	poly, err := areaPolygon(area)
	if err != nil {
		return false, err
	}
	if _, err := f.SetStayIn(poly, area.Label(), src); err != nil {
		return false, err
	}
	return true, nil
}

func checkSlot(slot int) error {
	if slot < 1 || slot > NumLines {
		return fmt.Errorf("slot %d: %w", slot, ErrInvalidSlot)
	}
	return nil
}

// SetLine stores a crossing line in the given slot, 1 through 4. A value
// outside [-180, 180] marks the slot invalid, dropping any line it held,
// and returns ErrLineOutOfRange; the other slots are unaffected.
func (f *Fence) SetLine(slot int, axis string, value float64) error {
	return f.setLine(slot, "", axis, value)
}

func (f *Fence) setLine(slot int, id, axis string, value float64) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	s := &f.lines[slot-1]
	if math.IsNaN(value) || value < -MaxLineValue || value > MaxLineValue {
		*s = lineSlot{state: lineInvalid}
		return fmt.Errorf("line %d: %v: %w", slot, value, ErrLineOutOfRange)
	}
	if id == "" {
		id = lineID(slot)
	}
	*s = lineSlot{state: lineValid, line: Line{ID: id, Axis: ParseAxis(axis), Value: value}}
	return nil
}

func lineID(slot int) string {
	return "line" + strconv.Itoa(slot)
}

// SetLineText is SetLine for a value as entered in a form field. Empty
// text clears the slot.
func (f *Fence) SetLineText(slot int, axis, text string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return f.ClearLine(slot)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		f.lines[slot-1] = lineSlot{state: lineInvalid}
		return fmt.Errorf("line %d: %q: %w", slot, text, ErrLineValue)
	}
	return f.SetLine(slot, axis, v)
}

func (f *Fence) ClearLine(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	f.lines[slot-1] = lineSlot{}
	return nil
}

// LineInvalid reports whether the slot holds a rejected value.
func (f *Fence) LineInvalid(slot int) bool {
	return checkSlot(slot) == nil && f.lines[slot-1].state == lineInvalid
}

// Line returns the valid line in the given slot, if any.
func (f *Fence) Line(slot int) (Line, bool) {
	if checkSlot(slot) != nil || f.lines[slot-1].state != lineValid {
		return Line{}, false
	}
	return f.lines[slot-1].line, true
}

// Lines returns the valid lines in slot order.
func (f *Fence) Lines() []Line {
	var lines []Line
	for _, s := range f.lines {
		if s.state == lineValid {
			lines = append(lines, s.line)
		}
	}
	return lines
}

func (f *Fence) KeepOut() []Entry {
	return util.MapSlice(f.keepOut, Entry.clone)
}

func (f *Fence) StayIn() (Entry, bool) {
	if f.stayIn == nil {
		return Entry{}, false
	}
	return f.stayIn.clone(), true
}

func (f *Fence) Reset() {
	*f = Fence{lg: f.lg}
}

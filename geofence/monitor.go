// geofence/monitor.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geofence

import (
	"time"

	"github.com/saber-t2c/groundcontrol/log"
	"github.com/saber-t2c/groundcontrol/math"
)

// SustainWindow is how long violations must persist before Update
// reports them.
const SustainWindow = 30 * time.Second

type Violation struct {
	ID     string
	Type   string // "keep_out", "stay_in", "line" or "test"
	Detail string
}

type ruleKind int

const (
	ruleKeepOut ruleKind = iota
	ruleStayIn
	ruleLine
)

type rule struct {
	kind    ruleKind
	id      string
	polygon []math.LatLon
	axis    Axis
	value   float64
	armed   bool
}

func (r *rule) violation(detail string) Violation {
	v := Violation{ID: r.id, Detail: detail}
	switch r.kind {
	case ruleKeepOut:
		v.Type = "keep_out"
	case ruleStayIn:
		v.Type = "stay_in"
	case ruleLine:
		v.Type = "line"
	default:
		panic("unhandled rule kind")
	}
	return v
}

// Monitor evaluates a stream of vehicle positions against a geofence
// document the way the flight unit does. A stay-in area only arms once
// the vehicle has been inside it, and violations are reported only after
// they have persisted for SustainWindow.
type Monitor struct {
	rules      []rule
	violations []Violation

	forced       bool
	havePrev     bool
	prev         math.LatLon
	pending      bool
	pendingSince time.Time

	lg *log.Logger
}

func NewMonitor(doc Document, lg *log.Logger) *Monitor {
	m := &Monitor{lg: lg}
	m.load(doc)
	return m
}

func (m *Monitor) load(doc Document) {
	m.rules = m.rules[:0]
	m.violations = nil
	for _, e := range doc.KeepOut {
		m.rules = append(m.rules, rule{kind: ruleKeepOut, id: e.ID, polygon: e.Polygon})
	}
	for _, e := range doc.StayIn {
		m.rules = append(m.rules, rule{kind: ruleStayIn, id: e.ID, polygon: e.Polygon})
	}
	for _, l := range doc.Lines {
		m.rules = append(m.rules, rule{kind: ruleLine, id: l.ID, axis: ParseAxis(l.Axis), value: l.Value})
	}
	m.lg.Infof("geofence monitor: loaded %d rules", len(m.rules))
}

// Reload replaces the rules; any pending violation is forgotten and
// stay-in areas must arm again.
func (m *Monitor) Reload(doc Document) {
	m.pending = false
	m.pendingSince = time.Time{}
	m.load(doc)
}

func (m *Monitor) RuleCount() int {
	return len(m.rules)
}

// crossed reports whether moving from prev to cur crossed value; leaving
// a point exactly on the line counts as a crossing.
func crossed(prev, cur, value float64) bool {
	a, b := prev-value, cur-value
	if a == 0 {
		return b != 0
	}
	return (a < 0 && b >= 0) || (a > 0 && b <= 0)
}

func (r *rule) crossedBy(prev, cur math.LatLon) bool {
	if r.axis == AxisEW {
		return crossed(prev.Latitude(), cur.Latitude(), r.value)
	}
	return crossed(prev.Longitude(), cur.Longitude(), r.value)
}

// Update evaluates the vehicle position p at time now and returns the
// violations to act on, which is empty until a violation has been
// continuously present for SustainWindow.
func (m *Monitor) Update(p math.LatLon, now time.Time) []Violation {
	defer func() {
		m.prev, m.havePrev = p, true
	}()

	m.violations = nil
	if m.forced {
		m.violations = []Violation{{ID: "force", Type: "test", Detail: "forced geofence violation"}}
		return m.Violations()
	}

	for i := range m.rules {
		r := &m.rules[i]
		switch r.kind {
		case ruleKeepOut:
			if math.PointInPolygon(p, r.polygon) {
				m.violations = append(m.violations, r.violation("entered keep-out"))
			}
		case ruleStayIn:
			inside := math.PointInPolygon(p, r.polygon)
			if !r.armed {
				r.armed = inside
			} else if !inside {
				m.violations = append(m.violations, r.violation("left stay-in"))
			}
		case ruleLine:
			if m.havePrev && r.crossedBy(m.prev, p) {
				m.violations = append(m.violations, r.violation("crossed line"))
			}
		}
	}

	if len(m.violations) == 0 {
		m.pending = false
		m.pendingSince = time.Time{}
	} else if !m.pending {
		m.pending, m.pendingSince = true, now
		m.lg.Infof("geofence monitor: %d violations at %s, waiting %s", len(m.violations), p.DDString(),
			SustainWindow)
		m.violations = nil
	} else if now.Sub(m.pendingSince) < SustainWindow {
		m.violations = nil
	} else {
		m.lg.Warnf("geofence monitor: %d sustained violations at %s", len(m.violations), p.DDString())
	}

	return m.Violations()
}

// Violations returns the violations reported by the last Update.
func (m *Monitor) Violations() []Violation {
	return append([]Violation(nil), m.violations...)
}

func (m *Monitor) ClearViolations() {
	m.violations = nil
}

// SetForcedViolation makes every Update report a test violation
// regardless of position.
func (m *Monitor) SetForcedViolation(forced bool) {
	m.forced = forced
	if !forced {
		m.violations = nil
	}
	m.pending = false
	m.pendingSince = time.Time{}
}

func (m *Monitor) ForcedViolation() bool {
	return m.forced
}

// Contained reports whether p is inside a stay-in area; hasStayIn is
// false if the document has none.
func (m *Monitor) Contained(p math.LatLon) (contained, hasStayIn bool) {
	for _, r := range m.rules {
		if r.kind != ruleStayIn {
			continue
		}
		hasStayIn = true
		if math.PointInPolygon(p, r.polygon) {
			return true, true
		}
	}
	return false, hasStayIn
}

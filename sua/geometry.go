// sua/geometry.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"fmt"

	"github.com/saber-t2c/groundcontrol/math"
)

type SegmentKind uint8

const (
	SegmentLine SegmentKind = 0x01
	SegmentArc  SegmentKind = 0x02
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentLine:
		return "LINE"
	case SegmentArc:
		return "ARC"
	default:
		return fmt.Sprintf("SegmentKind(%#02x)", uint8(k))
	}
}

// ArcDirection is the one-byte sweep flag stored with each arc. Arc
// angles are measured counterclockwise from east; flag value 1 (which
// the catalog format calls clockwise) sweeps from the start angle toward
// increasing angles and any other value sweeps toward decreasing angles.
type ArcDirection uint8

const (
	SweepDecreasing ArcDirection = 0
	SweepIncreasing ArcDirection = 1
)

// Segment is one boundary primitive of a ring. For SegmentLine only Start
// and End are meaningful.
type Segment struct {
	Kind      SegmentKind
	Start     math.LatLon
	End       math.LatLon
	Center    math.LatLon
	RadiusM   uint32
	StartCD   uint16 // centidegrees
	EndCD     uint16
	Direction ArcDirection
}

func LineSegment(start, end math.LatLon) Segment {
	return Segment{Kind: SegmentLine, Start: start, End: end}
}

type Ring struct {
	Segments []Segment
}

// Geometry is the decoded boundary of a single area. It is produced
// fresh by each decode and not retained by the catalog.
type Geometry struct {
	TypeCode string
	Rings    []Ring
}

// FirstRingPolygon returns the closed polygon for the area's first ring,
// which is the only one used for geofencing.
func (g Geometry) FirstRingPolygon() ([]math.LatLon, error) {
	if len(g.Rings) == 0 {
		return nil, fmt.Errorf("no rings: %w", ErrUnusableGeometry)
	}
	poly := BuildRing(g.Rings[0])
	if len(poly) < 3 {
		return nil, fmt.Errorf("%d points in first ring: %w", len(poly), ErrUnusableGeometry)
	}
	return poly, nil
}

// DecodeGeometry decodes the area geometry stored at
// geomTableOffset+geomOffset in blob. The string table offset needed to
// resolve the area's type code is taken from the blob header.
func DecodeGeometry(blob []byte, geomTableOffset, geomOffset uint32) (Geometry, error) {
	hdr := newCursor(blob, 8, uint64(len(blob)))
	stringTableOffset := hdr.u32()
	if hdr.err != nil {
		return Geometry{}, fmt.Errorf("blob header: %w", ErrUnusableGeometry)
	}
	start := uint64(geomTableOffset) + uint64(geomOffset)
	return decodeGeometry(blob, stringTableOffset, start, uint64(len(blob)))
}

func decodeGeometry(blob []byte, stringTableOffset uint32, start, limit uint64) (Geometry, error) {
	c := newCursor(blob, start, limit)

	ringCount := c.u16()
	c.skip(2)
	typeLen := c.u16()
	c.skip(2)
	typeOffset := c.u32()
	if c.err != nil {
		return Geometry{}, fmt.Errorf("geometry header at %d: %w", start, ErrUnusableGeometry)
	}

	var g Geometry
	if typeLen > 0 {
		off := uint64(stringTableOffset) + uint64(typeOffset)
		if end := off + uint64(typeLen); end <= uint64(len(blob)) {
			g.TypeCode = string(blob[off:end])
		} else if s, ok := cString(blob, off); ok {
			g.TypeCode = s
		} else {
			return Geometry{}, fmt.Errorf("type code at %d: %w", off, ErrUnusableGeometry)
		}
	}

	g.Rings = make([]Ring, 0, ringCount)
	for ri := 0; ri < int(ringCount); ri++ {
		segCount := c.u16()
		c.skip(2)
		if c.err != nil {
			return Geometry{}, fmt.Errorf("ring %d header: %w", ri, ErrUnusableGeometry)
		}

		ring := Ring{Segments: make([]Segment, 0, segCount)}
		for si := 0; si < int(segCount); si++ {
			seg := Segment{Kind: SegmentKind(c.u8())}
			switch seg.Kind {
			case SegmentLine:
				seg.Start = math.LatLon{c.degrees(), c.degrees()}
				seg.End = math.LatLon{c.degrees(), c.degrees()}
			case SegmentArc:
				seg.Start = math.LatLon{c.degrees(), c.degrees()}
				seg.End = math.LatLon{c.degrees(), c.degrees()}
				seg.Center = math.LatLon{c.degrees(), c.degrees()}
				seg.RadiusM = c.u32()
				seg.StartCD = c.u16()
				seg.EndCD = c.u16()
				seg.Direction = ArcDirection(c.u8())
			default:
				if c.err == nil {
					return Geometry{}, fmt.Errorf("ring %d segment %d: unknown tag %#02x: %w", ri, si,
						uint8(seg.Kind), ErrUnusableGeometry)
				}
			}
			if c.err != nil {
				return Geometry{}, fmt.Errorf("ring %d segment %d truncated: %w", ri, si, ErrUnusableGeometry)
			}
			ring.Segments = append(ring.Segments, seg)
		}
		g.Rings = append(g.Rings, ring)
	}

	return g, nil
}

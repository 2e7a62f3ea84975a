// sua/builder.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

const catalogVersion = 1

// NameID returns the index record id for an area name: the 32-bit FNV-1a
// hash of the upper-cased name.
func NameID(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToUpper(name)))
	return h.Sum32()
}

// EncodeCentidegrees converts an angle in degrees to its 16-bit encoded
// form; negative angles wrap as two's complement.
func EncodeCentidegrees(deg float64) uint16 {
	return uint16(int64(math.Round(deg*100)) & 0xffff)
}

func encodeFixed(v float64) int32 {
	return int32(math.Round(v * fixedPointScale))
}

type builderArea struct {
	name     string
	typeCode string
	rings    []Ring
}

// CatalogBuilder accumulates areas and writes them out as an index/blob
// pair in catalog order of insertion.
type CatalogBuilder struct {
	areas []builderArea
}

func (b *CatalogBuilder) Add(name, typeCode string, rings ...Ring) {
	b.areas = append(b.areas, builderArea{name: name, typeCode: typeCode, rings: rings})
}

func (b *CatalogBuilder) Len() int {
	return len(b.areas)
}

type stringTable struct {
	offsets map[string]uint32
	data    []byte
}

func (st *stringTable) add(s string) {
	if _, ok := st.offsets[s]; ok {
		return
	}
	st.offsets[s] = uint32(len(st.data))
	st.data = append(st.data, s...)
	st.data = append(st.data, 0)
}

// Build returns the encoded index and blob buffers. Index records carry
// bounding boxes, so entries are 32 bytes.
func (b *CatalogBuilder) Build() (index, blob []byte) {
	st := stringTable{offsets: make(map[string]uint32)}
	for _, a := range b.areas {
		st.add(a.name)
	}
	for _, a := range b.areas {
		st.add(a.typeCode)
	}

	le := binary.LittleEndian
	var geom []byte
	index = make([]byte, 0, indexHeaderSize+bboxEntrySize*len(b.areas))
	index = append(index, Magic...)
	index = le.AppendUint16(index, catalogVersion)
	index = le.AppendUint16(index, bboxEntrySize)
	index = le.AppendUint32(index, uint32(len(b.areas)))
	index = le.AppendUint32(index, 0)

	for _, a := range b.areas {
		start := len(geom)
		var bbox [4]int32
		geom, bbox = appendGeometry(geom, a, st.offsets[a.typeCode])

		index = le.AppendUint32(index, NameID(a.name))
		index = le.AppendUint32(index, st.offsets[a.name])
		index = le.AppendUint32(index, uint32(start))
		index = le.AppendUint32(index, uint32(len(geom)-start))
		for _, v := range bbox {
			index = le.AppendUint32(index, uint32(v))
		}
	}

	stringTableOffset := uint32(blobHeaderSize)
	geomTableOffset := stringTableOffset + uint32(len(st.data))
	blob = make([]byte, 0, int(geomTableOffset)+len(geom))
	blob = append(blob, Magic...)
	blob = le.AppendUint16(blob, catalogVersion)
	blob = le.AppendUint16(blob, 0)
	blob = le.AppendUint32(blob, stringTableOffset)
	blob = le.AppendUint32(blob, geomTableOffset)
	blob = le.AppendUint32(blob, geomTableOffset+uint32(len(geom)))
	blob = append(blob, st.data...)
	blob = append(blob, geom...)

	return index, blob
}

// appendGeometry encodes a's rings and returns the updated buffer along
// with the e6 bounding box [min_lat, min_lon, max_lat, max_lon] of every
// encoded point, or zeros if there were none.
func appendGeometry(buf []byte, a builderArea, typeOffset uint32) ([]byte, [4]int32) {
	le := binary.LittleEndian

	var rings []Ring
	for _, r := range a.rings {
		if len(r.Segments) > 0 {
			rings = append(rings, r)
		}
	}

	buf = le.AppendUint16(buf, uint16(len(rings)))
	buf = le.AppendUint16(buf, 0)
	buf = le.AppendUint16(buf, uint16(len(a.typeCode)))
	buf = le.AppendUint16(buf, 0)
	buf = le.AppendUint32(buf, typeOffset)

	bbox := [4]int32{maxE6, maxE6, minE6, minE6}
	appendPoint := func(p math.LatLon) {
		lat, lon := encodeFixed(p[0]), encodeFixed(p[1])
		bbox[0], bbox[1] = min(bbox[0], lat), min(bbox[1], lon)
		bbox[2], bbox[3] = max(bbox[2], lat), max(bbox[3], lon)
		buf = le.AppendUint32(buf, uint32(lat))
		buf = le.AppendUint32(buf, uint32(lon))
	}

	for _, r := range rings {
		buf = le.AppendUint16(buf, uint16(len(r.Segments)))
		buf = le.AppendUint16(buf, 0)
		for _, s := range r.Segments {
			buf = append(buf, byte(s.Kind))
			appendPoint(s.Start)
			appendPoint(s.End)
			if s.Kind == SegmentArc {
				appendPoint(s.Center)
				buf = le.AppendUint32(buf, s.RadiusM)
				buf = le.AppendUint16(buf, s.StartCD)
				buf = le.AppendUint16(buf, s.EndCD)
				buf = append(buf, byte(s.Direction))
			}
		}
	}

	if bbox[0] == maxE6 {
		bbox = [4]int32{}
	}
	return buf, bbox
}

const (
	maxE6 = 1<<31 - 1
	minE6 = -1 << 31
)

///////////////////////////////////////////////////////////////////////////
// Feature export

type primitivesFile struct {
	Features []primitiveFeature `json:"features"`
}

type primitiveFeature struct {
	Properties map[string]any `json:"properties"`
	Rings      []struct {
		Segments []primitiveSegment `json:"segments"`
	} `json:"rings"`
}

type primitiveSegment struct {
	Type          string     `json:"type"`
	Start         [2]float64 `json:"start"`
	End           [2]float64 `json:"end"`
	Center        [2]float64 `json:"center"`
	RadiusM       float64    `json:"radius_m"`
	StartAngleDeg float64    `json:"start_angle_deg"`
	EndAngleDeg   float64    `json:"end_angle_deg"`
	Direction     string     `json:"direction"`
}

func (f primitiveFeature) property(key string) string {
	if v, ok := f.Properties[key]; ok && v != nil {
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return ""
}

// BuildFromPrimitives converts the airspace feature export (a JSON object
// with a "features" array of named features, each with rings of LINE and
// ARC segments) into a CatalogBuilder. Unnamed features are named from
// their OBJECTID. Segments of unknown type are reported to e and dropped.
func BuildFromPrimitives(b []byte, e *util.ErrorLogger) (*CatalogBuilder, error) {
	var pf primitivesFile
	if err := util.UnmarshalJSON(b, &pf); err != nil {
		return nil, err
	}

	cb := &CatalogBuilder{}
	for _, feat := range pf.Features {
		name := feat.property("NAME")
		if name == "" {
			name = "OBJECTID-" + feat.property("OBJECTID")
		}
		e.Push(name)

		var rings []Ring
		for _, pr := range feat.Rings {
			var r Ring
			for i, ps := range pr.Segments {
				seg := Segment{
					Start: math.LatLon(ps.Start),
					End:   math.LatLon(ps.End),
				}
				switch strings.ToUpper(ps.Type) {
				case "LINE":
					seg.Kind = SegmentLine
				case "ARC":
					seg.Kind = SegmentArc
					seg.Center = math.LatLon(ps.Center)
					seg.RadiusM = uint32(math.Max(0, math.Round(ps.RadiusM)))
					seg.StartCD = EncodeCentidegrees(ps.StartAngleDeg)
					seg.EndCD = EncodeCentidegrees(ps.EndAngleDeg)
					seg.Direction = util.Select(ps.Direction == "" || strings.EqualFold(ps.Direction, "CCW"),
						SweepIncreasing, SweepDecreasing)
				default:
					e.ErrorString("segment %d: unknown type %q", i, ps.Type)
					continue
				}
				r.Segments = append(r.Segments, seg)
			}
			rings = append(rings, r)
		}

		cb.Add(name, feat.property("TYPE_CODE"), rings...)
		e.Pop()
	}
	return cb, nil
}

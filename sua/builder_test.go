// sua/builder_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"encoding/binary"
	"slices"
	"strings"
	"testing"

	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

func TestNameID(t *testing.T) {
	for _, tc := range []struct {
		name string
		id   uint32
	}{
		{name: "", id: 0x811c9dc5},
		{name: "A", id: 0xc40bf6cc},
		{name: "a", id: 0xc40bf6cc},
		{name: "R-5002", id: 0xb9a3dc37},
		{name: "r-5002", id: 0xb9a3dc37},
	} {
		if id := NameID(tc.name); id != tc.id {
			t.Errorf("NameID(%q): got %08x, want %08x", tc.name, id, tc.id)
		}
	}
}

func TestBuilderLayout(t *testing.T) {
	var b CatalogBuilder
	b.Add("Alpha", "R", triangle(0, 0))
	b.Add("Bravo", "R", triangle(1, 1))
	index, blob := b.Build()

	le := binary.LittleEndian
	if string(index[:4]) != Magic || string(blob[:4]) != Magic {
		t.Errorf("missing magic")
	}
	if v := le.Uint16(index[4:]); v != 1 {
		t.Errorf("index version: got %d, want 1", v)
	}
	if v := le.Uint16(index[6:]); v != 32 {
		t.Errorf("entry size: got %d, want 32", v)
	}
	if v := le.Uint32(index[8:]); v != 2 {
		t.Errorf("entry count: got %d, want 2", v)
	}
	if len(index) != 16+2*32 {
		t.Errorf("index length: got %d, want %d", len(index), 16+2*32)
	}

	if v := le.Uint32(blob[8:]); v != 20 {
		t.Errorf("string table offset: got %d, want 20", v)
	}
	// "Alpha\0Bravo\0R\0"; the type code is shared.
	if v := le.Uint32(blob[12:]); v != 20+14 {
		t.Errorf("geometry table offset: got %d, want %d", v, 20+14)
	}
	if v := le.Uint32(blob[16:]); int(v) != len(blob) {
		t.Errorf("end offset: got %d, want %d", v, len(blob))
	}

	// Second record: id, name offset, geometry offset follows the first
	// area's geometry.
	rec := index[16+32:]
	if v := le.Uint32(rec); v != NameID("Bravo") {
		t.Errorf("id: got %08x", v)
	}
	if v := le.Uint32(rec[4:]); v != 6 {
		t.Errorf("name offset: got %d, want 6", v)
	}
	if v := le.Uint32(rec[8:]); v != le.Uint32(index[16+12:]) {
		t.Errorf("geometry offset: got %d, want %d", v, le.Uint32(index[16+12:]))
	}
	// One ring of three lines: 12 + 4 + 3*17.
	if v := le.Uint32(rec[12:]); v != 67 {
		t.Errorf("geometry length: got %d, want 67", v)
	}
	if v := int32(le.Uint32(rec[28:])); v != 2000000 {
		t.Errorf("max lon: got %d, want 2000000", v)
	}
}

const primitivesJSON = `{
  "type": "sua_primitives",
  "features": [
    {
      "properties": {"NAME": " R-5002 ", "TYPE_CODE": "R", "OBJECTID": 17},
      "rings": [
        {"segments": [
          {"type": "LINE", "start": [39.5, -75.5], "end": [39.5, -75.0]},
          {"type": "ARC", "start": [39.5, -75.0], "end": [39.0, -75.0], "center": [39.25, -75.0],
           "radius_m": 27830.4, "start_angle_deg": 90, "end_angle_deg": -90, "direction": "CW"},
          {"type": "SPLINE", "start": [39.0, -75.0], "end": [39.0, -75.5]},
          {"type": "LINE", "start": [39.0, -75.0], "end": [39.5, -75.5]}
        ]},
        {"segments": []}
      ]
    },
    {
      "properties": {"NAME": "", "OBJECTID": 42},
      "rings": [
        {"segments": [
          {"type": "ARC", "start": [1, 0], "end": [1, 0], "center": [0, 0],
           "radius_m": 1000, "start_angle_deg": 0, "end_angle_deg": 359.99}
        ]}
      ]
    }
  ]
}`

func TestBuildFromPrimitives(t *testing.T) {
	var e util.ErrorLogger
	cb, err := BuildFromPrimitives([]byte(primitivesJSON), &e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Count() != 1 || !strings.Contains(e.String(), "SPLINE") {
		t.Errorf("expected a single SPLINE error, got %q", e.String())
	}
	if cb.Len() != 2 {
		t.Fatalf("got %d areas, want 2", cb.Len())
	}

	index, blob := cb.Build()
	c, err := LoadCatalog(index, blob, nil)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if got := entryNames(c); !slices.Equal(got, []string{"OBJECTID-42", "R-5002"}) {
		t.Errorf("names: got %v", got)
	}

	e5002, _ := c.Lookup(NameID("r-5002"))
	g, err := c.Geometry(e5002)
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	if g.TypeCode != "R" || len(g.Rings) != 1 {
		t.Fatalf("got type %q with %d rings, want R with 1", g.TypeCode, len(g.Rings))
	}
	segs := g.Rings[0].Segments
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	arc := segs[1]
	if arc.Kind != SegmentArc || arc.RadiusM != 27830 || arc.StartCD != 9000 || arc.EndCD != 56536 ||
		arc.Direction != SweepDecreasing {
		t.Errorf("arc: got %+v", arc)
	}
	if arc.Center != (math.LatLon{39.25, -75}) {
		t.Errorf("arc center: got %v", arc.Center)
	}

	e42, _ := c.FindByName("objectid-42")
	g, err = c.Geometry(e42)
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	if g.TypeCode != "" || g.Rings[0].Segments[0].Direction != SweepIncreasing {
		t.Errorf("OBJECTID-42: got %+v", g)
	}
}

func TestBuildFromPrimitivesBadJSON(t *testing.T) {
	var e util.ErrorLogger
	if _, err := BuildFromPrimitives([]byte(`{"features": [`), &e); err == nil {
		t.Errorf("expected an error for truncated JSON")
	}
	if _, err := BuildFromPrimitives([]byte(`{"features": 12}`), &e); err == nil {
		t.Errorf("expected an error for mistyped JSON")
	}
}

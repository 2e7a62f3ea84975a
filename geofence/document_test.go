// geofence/document_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geofence

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

func TestDocumentRoundTrip(t *testing.T) {
	f := NewFence(nil)
	f.AddKeepOut(tri(39, -75), "Range", HandSource())
	f.AddKeepOut(tri(38, -75), "W-386", CatalogSource(0x1234abcd))
	f.SetStayIn([]math.LatLon{{30, -80}, {45, -80}, {45, -70}, {30, -70}}, "Box", PrebuiltSource("East"))
	f.SetLine(1, "N/S", -74.5)
	f.SetLine(4, "E/W", 40.25)

	doc := f.ToDocument()
	b, err := doc.MarshalIndent()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var e util.ErrorLogger
	parsed, err := ParseDocument(b, &e)
	if err != nil || e.HaveErrors() {
		t.Fatalf("ParseDocument: %v / %s", err, e.String())
	}
	if !reflect.DeepEqual(parsed, doc) {
		t.Errorf("parsed document differs:\ngot  %+v\nwant %+v", parsed, doc)
	}

	f2, err := FenceFromDocument(parsed, nil)
	if err != nil {
		t.Fatalf("FenceFromDocument: unexpected error: %v", err)
	}
	doc2 := f2.ToDocument()
	// Lines are repacked into the first slots but keep their ids.
	if !reflect.DeepEqual(doc2, doc) {
		t.Errorf("rebuilt document differs:\ngot  %+v\nwant %+v", doc2, doc)
	}
	if l, ok := f2.Line(2); !ok || l.ID != "line4" {
		t.Errorf("second line: got %+v/%v", l, ok)
	}
	if ko := f2.KeepOut(); ko[1].Source != CatalogSource(0x1234abcd) {
		t.Errorf("catalog source lost: %+v", ko[1].Source)
	}
}

func TestDocumentJSONShape(t *testing.T) {
	f := NewFence(nil)
	f.AddKeepOut(tri(0, 0), "", HandSource())
	f.SetLine(1, "", 5)
	b, err := json.Marshal(f.ToDocument())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = `{"keep_out":[{"id":"keep_out_1","polygon":[[0,0],[0.1,0],[0,0.1],[0,0]],"source":"hand"}],` +
		`"stay_in":[],"lines":[{"id":"line1","axis":"N/S","value":5}]}`
	if string(b) != want {
		t.Errorf("got  %s\nwant %s", b, want)
	}
}

func TestParseDocumentLoose(t *testing.T) {
	const doc = `{
  "keep_out": [
    {"polygon": [[39, -75], [39.1, -75], [39], [39, -74.9]]},
    {"id": "ko", "label": "Named", "polygon": [[1, 1], [2, 1], [1, 2]], "source": "catalog", "ref": "0000beef"}
  ],
  "lines": [
    {"axis": "e/w", "value": 41.5},
    {"id": "east", "value": -74},
    {"id": "broken", "axis": "N/S"}
  ]
}`
	var e util.ErrorLogger
	d, err := ParseDocument([]byte(doc), &e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Count() != 2 {
		t.Errorf("got %d errors, want 2: %s", e.Count(), e.String())
	}
	if !strings.Contains(e.String(), "keep_out: keep_out_1: point 2") {
		t.Errorf("missing short point error: %s", e.String())
	}

	if len(d.KeepOut) != 2 || d.KeepOut[0].ID != "keep_out_1" || len(d.KeepOut[0].Polygon) != 3 {
		t.Errorf("keep_out: got %+v", d.KeepOut)
	}
	if d.StayIn == nil || len(d.StayIn) != 0 {
		t.Errorf("stay_in: got %+v", d.StayIn)
	}
	want := []DocumentLine{{ID: "line1", Axis: "E/W", Value: 41.5}, {ID: "east", Axis: "N/S", Value: -74}}
	if !reflect.DeepEqual(d.Lines, want) {
		t.Errorf("lines: got %+v, want %+v", d.Lines, want)
	}

	if _, err := ParseDocument([]byte(`{"keep_out": {}}`), &e); err == nil {
		t.Errorf("expected an error for a mistyped document")
	}
	if _, err := ParseDocument([]byte(`{"keep_out": [`), &e); err == nil {
		t.Errorf("expected an error for truncated JSON")
	}
}

func TestFenceFromDocumentEnforcesLimits(t *testing.T) {
	var doc Document
	for i := range MaxKeepOut + 1 {
		doc.KeepOut = append(doc.KeepOut, DocumentEntry{ID: "k" + string(rune('a'+i)), Polygon: tri(float64(i), 0)})
	}
	doc.KeepOut = append(doc.KeepOut[:1], append([]DocumentEntry{
		{ID: "flat", Polygon: []math.LatLon{{0, 0}, {1, 1}, {2, 2}}},
	}, doc.KeepOut[1:]...)...)
	doc.StayIn = []DocumentEntry{
		{ID: "s1", Polygon: tri(5, 5), Source: "weird"},
		{ID: "s2", Polygon: tri(6, 6)},
	}
	for i := range NumLines + 1 {
		doc.Lines = append(doc.Lines, DocumentLine{ID: "l", Axis: "N/S", Value: float64(i)})
	}
	doc.Lines[0].Value = 200

	f, err := FenceFromDocument(doc, nil)
	for _, want := range []error{ErrCapacityExceeded, ErrDegeneratePolygon, ErrAlreadySet, ErrLineOutOfRange} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
	if err == nil || !strings.Contains(err.Error(), "weird") {
		t.Errorf("expected unknown source to be reported: %v", err)
	}

	if ko := f.KeepOut(); len(ko) != MaxKeepOut || ko[0].ID != "ka" || ko[5].ID != "kf" {
		t.Errorf("keep_out: got %d entries", len(ko))
	}
	if s, _ := f.StayIn(); s.ID != "s1" || s.Source != HandSource() {
		t.Errorf("stay_in: got %+v", s)
	}
	if !f.LineInvalid(1) || len(f.Lines()) != 3 {
		t.Errorf("lines: got %+v", f.Lines())
	}

	// The document passed in isn't aliased.
	doc.StayIn[0].Polygon[0] = math.LatLon{-5, -5}
	if s, _ := f.StayIn(); s.Polygon[0] != (math.LatLon{5, 5}) {
		t.Errorf("fence shares memory with document")
	}
}

func TestFenceFromDocumentDuplicateIDs(t *testing.T) {
	doc := Document{KeepOut: []DocumentEntry{
		{ID: "keep_out_1", Polygon: tri(0, 0)},
		{ID: "keep_out_1", Polygon: tri(1, 0)},
	}}
	f, err := FenceFromDocument(doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ko := f.KeepOut(); len(ko) != 2 || ko[0].ID == ko[1].ID {
		t.Errorf("got %+v, want two distinct ids", ko)
	}
}

func TestSummary(t *testing.T) {
	f := NewFence(nil)
	if s := f.ToDocument().Summary(); s != "Exclusion: 0 | Contained: 0 | Lines: 0" {
		t.Errorf("got %q", s)
	}
	f.AddKeepOut(tri(0, 0), "", HandSource())
	f.AddKeepOut(tri(1, 0), "", HandSource())
	f.SetStayIn(tri(5, 5), "", HandSource())
	f.SetLine(2, "N/S", 1)
	if s := f.ToDocument().Summary(); s != "Exclusion: 2 | Contained: 1 | Lines: 1" {
		t.Errorf("got %q", s)
	}
}

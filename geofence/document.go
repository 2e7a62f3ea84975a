// geofence/document.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geofence

import (
	"encoding/json"
	"fmt"

	"github.com/brunoga/deep"

	"github.com/saber-t2c/groundcontrol/log"
	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

// Document is the exported form of a Fence that is exchanged with the
// device and stored with missions.
type Document struct {
	KeepOut []DocumentEntry `json:"keep_out"`
	StayIn  []DocumentEntry `json:"stay_in"`
	Lines   []DocumentLine  `json:"lines"`
}

type DocumentEntry struct {
	ID      string        `json:"id"`
	Label   string        `json:"label,omitempty"`
	Polygon []math.LatLon `json:"polygon"`
	Source  string        `json:"source,omitempty"`
	Ref     string        `json:"ref,omitempty"`
}

type DocumentLine struct {
	ID    string  `json:"id"`
	Axis  string  `json:"axis"`
	Value float64 `json:"value"`
}

func documentEntry(e Entry) DocumentEntry {
	return DocumentEntry{
		ID:      e.ID,
		Label:   e.Label,
		Polygon: e.Polygon,
		Source:  e.Source.Kind.String(),
		Ref:     e.Source.Ref(),
	}
}

// ToDocument returns a snapshot of the fence that shares no memory with
// it. Empty and invalid line slots are omitted.
func (f *Fence) ToDocument() Document {
	doc := Document{
		KeepOut: util.MapSlice(f.keepOut, documentEntry),
		StayIn:  []DocumentEntry{},
		Lines:   []DocumentLine{},
	}
	if doc.KeepOut == nil {
		doc.KeepOut = []DocumentEntry{}
	}
	if f.stayIn != nil {
		doc.StayIn = append(doc.StayIn, documentEntry(*f.stayIn))
	}
	for _, l := range f.Lines() {
		doc.Lines = append(doc.Lines, DocumentLine{ID: l.ID, Axis: string(l.Axis), Value: l.Value})
	}
	return deep.MustCopy(doc)
}

func (d Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Summary returns the one-line description saved with a mission record.
func (d Document) Summary() string {
	return fmt.Sprintf("Exclusion: %d | Contained: %d | Lines: %d", len(d.KeepOut), min(len(d.StayIn), 1),
		len(d.Lines))
}

///////////////////////////////////////////////////////////////////////////
// Loading

type looseDocument struct {
	KeepOut []looseEntry `json:"keep_out"`
	StayIn  []looseEntry `json:"stay_in"`
	Lines   []looseLine  `json:"lines"`
}

type looseEntry struct {
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Polygon [][]float64 `json:"polygon"`
	Source  string      `json:"source"`
	Ref     string      `json:"ref"`
}

type looseLine struct {
	ID    string   `json:"id"`
	Axis  string   `json:"axis"`
	Value *float64 `json:"value"`
}

// ParseDocument decodes a geofence document as written by the device or
// an older portal: points with fewer than two coordinates and lines
// without a value are reported to e and dropped, a missing axis means
// N/S and missing ids are filled in. Only malformed JSON is an error.
func ParseDocument(b []byte, e *util.ErrorLogger) (Document, error) {
	var ld looseDocument
	if err := util.UnmarshalJSON(b, &ld); err != nil {
		return Document{}, err
	}

	entries := func(section, defaultID string, le []looseEntry) []DocumentEntry {
		e.Push(section)
		defer e.Pop()

		de := []DocumentEntry{}
		for i, l := range le {
			d := DocumentEntry{ID: l.ID, Label: l.Label, Source: l.Source, Ref: l.Ref}
			if d.ID == "" {
				d.ID = fmt.Sprintf("%s%d", defaultID, i+1)
			}
			for j, p := range l.Polygon {
				if len(p) < 2 {
					e.ErrorString("%s: point %d has %d coordinates", d.ID, j, len(p))
					continue
				}
				d.Polygon = append(d.Polygon, math.LatLon{p[0], p[1]})
			}
			de = append(de, d)
		}
		return de
	}

	doc := Document{
		KeepOut: entries("keep_out", "keep_out_", ld.KeepOut),
		StayIn:  entries("stay_in", "stay_in_", ld.StayIn),
		Lines:   []DocumentLine{},
	}

	e.Push("lines")
	for i, l := range ld.Lines {
		id := l.ID
		if id == "" {
			id = lineID(i + 1)
		}
		if l.Value == nil {
			e.ErrorString("%s: no value", id)
			continue
		}
		doc.Lines = append(doc.Lines, DocumentLine{ID: id, Axis: string(ParseAxis(l.Axis)), Value: *l.Value})
	}
	e.Pop()

	return doc, nil
}

// FenceFromDocument builds a fence from a loaded document, applying the
// same checks as interactive editing. Entries that fail them, along with
// anything beyond the fence's capacity, are left out and reported in the
// returned error; the fence holds everything that was accepted.
func FenceFromDocument(doc Document, lg *log.Logger) (*Fence, error) {
	doc = deep.MustCopy(doc)
	f := NewFence(lg)

	var e util.ErrorLogger
	add := func(section string, entries []DocumentEntry,
		addfn func(id string, points []math.LatLon, label string, src Source) (string, error)) {
		e.Push(section)
		defer e.Pop()

		for _, d := range entries {
			e.Push(d.ID)
			src, err := ParseSource(d.Source, d.Ref)
			if err != nil {
				e.Error(err)
			}
			id := d.ID
			if f.haveID(id) {
				id = ""
			}
			if _, err := addfn(id, d.Polygon, d.Label, src); err != nil {
				e.Error(err)
			}
			e.Pop()
		}
	}
	add("keep_out", doc.KeepOut, f.addKeepOut)
	add("stay_in", doc.StayIn, f.setStayIn)

	e.Push("lines")
	for i, l := range doc.Lines {
		if i >= NumLines {
			e.Error(fmt.Errorf("%s: %w", l.ID, ErrCapacityExceeded))
			continue
		}
		if err := f.setLine(i+1, l.ID, l.Axis, l.Value); err != nil {
			e.Error(err)
		}
	}
	e.Pop()

	if e.HaveErrors() {
		e.LogErrors(lg)
	}
	return f, e.Err()
}

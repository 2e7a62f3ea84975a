// sua/catalog.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/saber-t2c/groundcontrol/log"
	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

// Entry is a single named area in the catalog.
type Entry struct {
	ID         uint32
	Name       string
	GeomOffset uint32 // relative to the blob's geometry table
	GeomLength uint32
	// Bounds holds [min_lat, min_lon] in P0 and [max_lat, max_lon] in
	// P1; it is only set for indexes with bounding-box records.
	Bounds    math.Extent2D
	HasBounds bool
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (%08x)", e.Name, e.ID)
}

// Catalog is the decoded, read-only index of special use airspace areas.
// It is built once by LoadCatalog and may be shared freely afterward.
type Catalog struct {
	entries           []Entry
	byID              map[uint32]int
	blob              []byte
	stringTableOffset uint32
	geomTableOffset   uint32
	skipped           int
	problems          error
}

// EmptyCatalog returns a well-formed catalog with no entries, for use when
// the catalog files are missing or unreadable.
func EmptyCatalog() *Catalog {
	return &Catalog{byID: make(map[uint32]int)}
}

// LoadCatalog decodes the index and blob buffers. A bad magic number or
// unreadable header is returned as a *FormatError. Individual records
// that reference data outside the buffers are skipped; they are counted
// in Skipped and reported by Problems.
func LoadCatalog(index, blob []byte, lg *log.Logger) (*Catalog, error) {
	if !hasMagic(index) {
		return nil, &FormatError{Buffer: "index", Reason: "bad magic"}
	}
	if !hasMagic(blob) {
		return nil, &FormatError{Buffer: "blob", Reason: "bad magic"}
	}

	ih := newCursor(index, 6, indexHeaderSize)
	entrySize := ih.u16()
	entryCount := ih.u32()
	if ih.err != nil {
		return nil, &FormatError{Buffer: "index", Reason: fmt.Sprintf("%d-byte header", len(index))}
	}
	if entrySize < minEntrySize {
		return nil, &FormatError{Buffer: "index", Reason: fmt.Sprintf("entry size %d", entrySize)}
	}

	bh := newCursor(blob, 8, indexHeaderSize)
	c := &Catalog{
		byID:              make(map[uint32]int),
		blob:              blob,
		stringTableOffset: bh.u32(),
		geomTableOffset:   bh.u32(),
	}
	if bh.err != nil {
		return nil, &FormatError{Buffer: "blob", Reason: fmt.Sprintf("%d-byte header", len(blob))}
	}

	var e util.ErrorLogger
	e.Push("SUA catalog")

	n := int(entryCount)
	if fit := (len(index) - indexHeaderSize) / int(entrySize); n > fit {
		e.Error(&BoundsError{
			Record: fit,
			Field:  fmt.Sprintf("%d records", n-fit),
			Offset: indexHeaderSize + uint64(fit)*uint64(entrySize),
			Length: uint64(n-fit) * uint64(entrySize),
			Size:   len(index),
		})
		c.skipped += n - fit
		n = fit
	}

	c.entries = make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		start := indexHeaderSize + uint64(i)*uint64(entrySize)
		entry, err := c.decodeEntry(index, blob, i, start, uint64(entrySize))
		if err != nil {
			e.Error(err)
			c.skipped++
			continue
		}
		if entry.Name == "" {
			c.skipped++
			continue
		}
		c.entries = append(c.entries, entry)
	}

	slices.SortStableFunc(c.entries, func(a, b Entry) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	for i, entry := range c.entries {
		if _, ok := c.byID[entry.ID]; !ok {
			c.byID[entry.ID] = i
		}
	}

	e.Pop()
	c.problems = e.Err()
	if e.HaveErrors() {
		lg.Warnf("SUA catalog: skipped %d of %d records", c.skipped, entryCount)
		e.LogErrors(lg)
	}
	lg.Infof("SUA catalog: loaded %d areas", len(c.entries))

	return c, nil
}

func (c *Catalog) decodeEntry(index, blob []byte, i int, start, size uint64) (Entry, error) {
	r := newCursor(index, start, start+size)
	entry := Entry{ID: r.u32()}
	nameOffset := r.u32()
	entry.GeomOffset = r.u32()
	entry.GeomLength = r.u32()
	if r.err != nil {
		return Entry{}, &BoundsError{Record: i, Field: "record", Offset: start, Length: size, Size: len(index)}
	}

	if size >= bboxEntrySize {
		minLat, minLon := r.degrees(), r.degrees()
		maxLat, maxLon := r.degrees(), r.degrees()
		if r.err == nil && (minLat != 0 || minLon != 0 || maxLat != 0 || maxLon != 0) {
			entry.Bounds = math.Extent2D{P0: [2]float64{minLat, minLon}, P1: [2]float64{maxLat, maxLon}}
			entry.HasBounds = true
		}
	}

	nameStart := uint64(c.stringTableOffset) + uint64(nameOffset)
	name, ok := cString(blob, nameStart)
	if !ok {
		return Entry{}, &BoundsError{Record: i, Field: "name", Offset: nameStart, Length: 1, Size: len(blob)}
	}
	entry.Name = name

	geomStart := uint64(c.geomTableOffset) + uint64(entry.GeomOffset)
	if geomStart+uint64(entry.GeomLength) > uint64(len(blob)) {
		return Entry{}, &BoundsError{Record: i, Field: "geometry", Offset: geomStart,
			Length: uint64(entry.GeomLength), Size: len(blob)}
	}

	return entry, nil
}

// LoadCatalogOrEmpty is LoadCatalog for callers that must always have a
// catalog: a format error is logged and an empty catalog returned.
func LoadCatalogOrEmpty(index, blob []byte, lg *log.Logger) *Catalog {
	c, err := LoadCatalog(index, blob, lg)
	if err != nil {
		lg.Warnf("%v: using empty SUA catalog", err)
		return EmptyCatalog()
	}
	return c
}

// Entries returns the catalog's areas sorted by name, ignoring case.
func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Skipped returns the number of index records that were dropped.
func (c *Catalog) Skipped() int {
	return c.skipped
}

// Problems returns the joined errors for the records that were dropped,
// or nil if every record was usable.
func (c *Catalog) Problems() error {
	return c.problems
}

// Lookup returns the entry with the given id. If several areas share an
// id, the first one in name order is returned.
func (c *Catalog) Lookup(id uint32) (Entry, bool) {
	if i, ok := c.byID[id]; ok {
		return c.entries[i], true
	}
	return Entry{}, false
}

// FindByName returns the entry with the given name, ignoring case.
func (c *Catalog) FindByName(name string) (Entry, bool) {
	key := strings.ToLower(name)
	i := sort.Search(len(c.entries), func(i int) bool {
		return strings.ToLower(c.entries[i].Name) >= key
	})
	if i < len(c.entries) && strings.ToLower(c.entries[i].Name) == key {
		return c.entries[i], true
	}
	return Entry{}, false
}

// Query returns the entries whose bounding boxes overlap the given
// extent, in name order. Extents are [lat, lon]; entries without a
// bounding box are never returned.
func (c *Catalog) Query(extent math.Extent2D) []Entry {
	return util.FilterSlice(c.entries, func(e Entry) bool {
		return e.HasBounds && math.Overlaps(e.Bounds, extent)
	})
}

// Geometry decodes the entry's geometry, reading no further than its
// recorded length.
func (c *Catalog) Geometry(e Entry) (Geometry, error) {
	if c.blob == nil {
		return Geometry{}, ErrUnknownArea
	}
	start := uint64(c.geomTableOffset) + uint64(e.GeomOffset)
	g, err := decodeGeometry(c.blob, c.stringTableOffset, start, start+uint64(e.GeomLength))
	if err != nil {
		return Geometry{}, fmt.Errorf("%s: %w", e.Name, err)
	}
	return g, nil
}

// Polygon returns the closed polygon for the first ring of the entry's
// geometry.
func (c *Catalog) Polygon(e Entry) ([]math.LatLon, error) {
	g, err := c.Geometry(e)
	if err != nil {
		return nil, err
	}
	poly, err := g.FirstRingPolygon()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	return poly, nil
}

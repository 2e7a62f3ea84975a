// geofence/source.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geofence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/sua"
)

type SourceKind int

const (
	SourceHand SourceKind = iota
	SourceCatalog
	SourcePrebuilt
)

func (k SourceKind) String() string {
	switch k {
	case SourceHand:
		return "hand"
	case SourceCatalog:
		return "catalog"
	case SourcePrebuilt:
		return "prebuilt"
	default:
		return "SourceKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Source records where a stored polygon came from. Catalog sources carry
// the area id and prebuilt sources the area name; two entries with equal
// sources refer to the same area.
type Source struct {
	Kind   SourceKind
	AreaID uint32
	Name   string
}

func HandSource() Source                { return Source{Kind: SourceHand} }
func CatalogSource(id uint32) Source    { return Source{Kind: SourceCatalog, AreaID: id} }
func PrebuiltSource(name string) Source { return Source{Kind: SourcePrebuilt, Name: name} }

// Ref returns the source's reference as stored in geofence documents: the
// hex area id, the prebuilt area's name, or "" for hand-drawn polygons.
func (s Source) Ref() string {
	switch s.Kind {
	case SourceHand:
		return ""
	case SourceCatalog:
		return fmt.Sprintf("%08x", s.AreaID)
	case SourcePrebuilt:
		return s.Name
	default:
		panic("unhandled source kind " + s.Kind.String())
	}
}

func (s Source) String() string {
	if ref := s.Ref(); ref != "" {
		return s.Kind.String() + ":" + ref
	}
	return s.Kind.String()
}

// ParseSource is the inverse of the document's source and ref fields.
// Unknown or malformed sources are treated as hand-drawn.
func ParseSource(kind, ref string) (Source, error) {
	switch strings.ToLower(kind) {
	case "", "hand":
		return HandSource(), nil
	case "catalog":
		id, err := strconv.ParseUint(ref, 16, 32)
		if err != nil {
			return HandSource(), fmt.Errorf("catalog ref %q: %w", ref, err)
		}
		return CatalogSource(uint32(id)), nil
	case "prebuilt":
		if ref == "" {
			return HandSource(), fmt.Errorf("prebuilt source without a name")
		}
		return PrebuiltSource(ref), nil
	default:
		return HandSource(), fmt.Errorf("%q: unknown source", kind)
	}
}

///////////////////////////////////////////////////////////////////////////
// Area

// Area is a selectable named region that can be toggled into a fence.
type Area interface {
	Source() Source
	Label() string
	// Polygon returns the area's closed boundary.
	Polygon() ([]math.LatLon, error)
}

// PolygonResolver resolves a catalog entry's boundary; it is implemented
// by *sua.Catalog and *sua.PolygonCache.
type PolygonResolver interface {
	Polygon(e sua.Entry) ([]math.LatLon, error)
}

type catalogArea struct {
	resolver PolygonResolver
	entry    sua.Entry
}

func NewCatalogArea(r PolygonResolver, e sua.Entry) Area {
	return catalogArea{resolver: r, entry: e}
}

func (a catalogArea) Source() Source { return CatalogSource(a.entry.ID) }
func (a catalogArea) Label() string  { return a.entry.Name }

func (a catalogArea) Polygon() ([]math.LatLon, error) {
	return a.resolver.Polygon(a.entry)
}

type prebuiltArea struct {
	area sua.PrebuiltArea
}

func NewPrebuiltArea(a sua.PrebuiltArea) Area {
	return prebuiltArea{area: a}
}

func (a prebuiltArea) Source() Source { return PrebuiltSource(a.area.Name) }
func (a prebuiltArea) Label() string  { return a.area.Name }

func (a prebuiltArea) Polygon() ([]math.LatLon, error) {
	poly := math.ClosePolygon(a.area.Polygon)
	if len(poly) < 3 {
		return nil, fmt.Errorf("%s: %d points: %w", a.area.Name, len(poly), ErrUnusableGeometry)
	}
	return poly, nil
}

// sua/cache.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/saber-t2c/groundcontrol/math"
)

// PolygonCache holds recently resolved area polygons so that repeated
// scene builds don't re-decode and re-tessellate the same areas. Entries
// are keyed by geometry offset, which is unique per area even when two
// names hash to the same id.
type PolygonCache struct {
	catalog *Catalog
	cache   *expirable.LRU[uint32, []math.LatLon]
}

func NewPolygonCache(c *Catalog, size int, ttl time.Duration) *PolygonCache {
	return &PolygonCache{
		catalog: c,
		cache:   expirable.NewLRU[uint32, []math.LatLon](size, nil, ttl),
	}
}

func (pc *PolygonCache) Catalog() *Catalog {
	return pc.catalog
}

// Polygon returns the closed first-ring polygon for e. Failures are not
// cached. The returned slice may be modified by the caller.
func (pc *PolygonCache) Polygon(e Entry) ([]math.LatLon, error) {
	if poly, ok := pc.cache.Get(e.GeomOffset); ok {
		return slices.Clone(poly), nil
	}

	poly, err := pc.catalog.Polygon(e)
	if err != nil {
		return nil, err
	}
	pc.cache.Add(e.GeomOffset, poly)
	return slices.Clone(poly), nil
}

func (pc *PolygonCache) Len() int {
	return pc.cache.Len()
}

func (pc *PolygonCache) Purge() {
	pc.cache.Purge()
}

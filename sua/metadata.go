// sua/metadata.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
)

// Metadata is the optional, advisory sidecar describing a catalog build.
type Metadata struct {
	AsOf string
	// Extra holds any other top-level keys in the order they appeared.
	Extra *orderedmap.OrderedMap
}

func ParseMetadata(b []byte) (Metadata, error) {
	om := orderedmap.New()
	if err := om.UnmarshalJSON(b); err != nil {
		return Metadata{}, fmt.Errorf("catalog metadata: %w", err)
	}

	md := Metadata{Extra: om}
	if v, ok := om.Get("as_of"); ok {
		s, ok := v.(string)
		if !ok {
			return Metadata{}, fmt.Errorf("catalog metadata: as_of: %T value, expected string", v)
		}
		md.AsOf = s
		om.Delete("as_of")
	}
	return md, nil
}

func (m Metadata) String() string {
	if m.AsOf == "" {
		return "SUA catalog (date unknown)"
	}
	return "SUA catalog as of " + m.AsOf
}

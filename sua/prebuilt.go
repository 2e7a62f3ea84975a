// sua/prebuilt.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/saber-t2c/groundcontrol/log"
	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

// PrebuiltArea is a named polygon from the operator-maintained CSV list.
// The polygon is stored as given; it is not necessarily closed.
type PrebuiltArea struct {
	Name    string
	Polygon []math.LatLon
}

// ParsePrebuiltCSV parses rows of the form name, lat1, lon1, lat2, lon2,
// ... after a header row. Rows with a missing name, an odd or short
// coordinate list, or unparseable numbers are reported to e and skipped.
func ParsePrebuiltCSV(b []byte, e *util.ErrorLogger) []PrebuiltArea {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	e.Push("prebuilt areas")
	defer e.Pop()

	var areas []PrebuiltArea
	for row := 0; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			e.Error(err)
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			break
		}
		if row == 0 {
			continue // header
		}

		if area, err := parsePrebuiltRow(rec); err != nil {
			e.Push(fmt.Sprintf("row %d", row+1))
			e.Error(err)
			e.Pop()
		} else {
			areas = append(areas, area)
		}
	}
	return areas
}

func parsePrebuiltRow(rec []string) (PrebuiltArea, error) {
	for len(rec) > 0 && strings.TrimSpace(rec[len(rec)-1]) == "" {
		rec = rec[:len(rec)-1]
	}
	if len(rec) == 0 {
		return PrebuiltArea{}, errors.New("empty row")
	}

	area := PrebuiltArea{Name: strings.TrimSpace(rec[0])}
	if area.Name == "" {
		return PrebuiltArea{}, errors.New("missing name")
	}
	coords := rec[1:]
	if len(coords)%2 != 0 {
		return PrebuiltArea{}, fmt.Errorf("%s: odd number of coordinates (%d)", area.Name, len(coords))
	}
	if len(coords) < 6 {
		return PrebuiltArea{}, fmt.Errorf("%s: %d points, at least 3 required", area.Name, len(coords)/2)
	}

	for i := 0; i < len(coords); i += 2 {
		lat, err := strconv.ParseFloat(strings.TrimSpace(coords[i]), 64)
		if err != nil {
			return PrebuiltArea{}, fmt.Errorf("%s: point %d latitude: %w", area.Name, i/2, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(coords[i+1]), 64)
		if err != nil {
			return PrebuiltArea{}, fmt.Errorf("%s: point %d longitude: %w", area.Name, i/2, err)
		}
		p := math.LatLon{lat, lon}
		if !math.ValidLatLon(p) {
			return PrebuiltArea{}, fmt.Errorf("%s: point %d %s out of range", area.Name, i/2, p.DDString())
		}
		area.Polygon = append(area.Polygon, p)
	}
	return area, nil
}

// ParsePrebuiltCSVOrEmpty parses the list, logging any problems; it never
// fails, returning whatever rows were usable.
func ParsePrebuiltCSVOrEmpty(b []byte, lg *log.Logger) []PrebuiltArea {
	var e util.ErrorLogger
	areas := ParsePrebuiltCSV(b, &e)
	if e.HaveErrors() {
		e.LogErrors(lg)
	}
	return areas
}

// FindPrebuilt returns the area with the given name, ignoring case.
func FindPrebuilt(areas []PrebuiltArea, name string) (PrebuiltArea, bool) {
	for _, a := range areas {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return PrebuiltArea{}, false
}

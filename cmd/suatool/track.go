// cmd/suatool/track.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/saber-t2c/groundcontrol/geofence"
	"github.com/saber-t2c/groundcontrol/log"
	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/util"
)

type fix struct {
	t time.Time
	p math.LatLon
}

// parseTrack reads whitespace-separated "unix-seconds lat lon" lines;
// blank lines and lines starting with # are ignored.
func parseTrack(b []byte, e *util.ErrorLogger) []fix {
	var fixes []fix
	sc := bufio.NewScanner(bytes.NewReader(b))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		f := strings.Fields(line)
		if len(f) != 3 {
			e.ErrorString("line %d: expected 3 fields, got %d", n, len(f))
			continue
		}
		var v [3]float64
		ok := true
		for i := range f {
			var err error
			if v[i], err = strconv.ParseFloat(f[i], 64); err != nil {
				e.ErrorString("line %d: %v", n, err)
				ok = false
				break
			}
		}
		if ok {
			sec := math.Floor(v[0])
			fixes = append(fixes, fix{
				t: time.Unix(int64(sec), int64((v[0]-sec)*1e9)).UTC(),
				p: math.LatLon{v[1], v[2]},
			})
		}
	}
	return fixes
}

func runTrack(opts *options, path string, lg *log.Logger) error {
	b, err := util.ReadFile(path)
	if err != nil {
		return err
	}

	var e util.ErrorLogger
	e.Push(path)
	fixes := parseTrack(b, &e)
	if e.HaveErrors() {
		e.LogErrors(lg)
		fmt.Println(e.String())
	}

	doc, err := loadSession(opts, lg)
	if err != nil {
		return err
	}
	m := geofence.NewMonitor(doc, lg)
	fmt.Printf("%s, %d rules, %d fixes\n", doc.Summary(), m.RuleCount(), len(fixes))

	for _, f := range fixes {
		for _, v := range m.Update(f.p, f.t) {
			fmt.Printf("%s %s: %s %s %s\n", f.t.Format(time.RFC3339), f.p.DDString(), v.Type, v.ID, v.Detail)
		}
	}

	if len(fixes) > 0 {
		last := fixes[len(fixes)-1].p
		if contained, has := m.Contained(last); has {
			fmt.Printf("final position %s contained: %v\n", last.DDString(), contained)
		}
	}
	return nil
}

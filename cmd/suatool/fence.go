// cmd/suatool/fence.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/saber-t2c/groundcontrol/geofence"
	"github.com/saber-t2c/groundcontrol/log"
	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/sua"
	"github.com/saber-t2c/groundcontrol/util"
)

// The fence being edited is kept in the cache directory between runs.

func loadSession(opts *options, lg *log.Logger) (geofence.Document, error) {
	var doc geofence.Document
	when, err := util.CacheRetrieveObject(opts.session, &doc)
	if errors.Is(err, fs.ErrNotExist) {
		return geofence.Document{}, nil
	} else if err != nil {
		return geofence.Document{}, fmt.Errorf("%s: %w", opts.session, err)
	}
	lg.Debugf("%s: loaded session saved %s", opts.session, when)
	return doc, nil
}

func saveSession(opts *options, f *geofence.Fence) error {
	return util.CacheStoreObject(opts.session, f.ToDocument())
}

func fenceUsage() {
	fmt.Fprintf(os.Stderr, `usage: suatool [flags] fence <op> [args...]
where <op> is one of:
  show                          print the fence summary
  export                        print the fence document as JSON
  import <file.json>            replace the fence with a document
  reset                         clear everything
  add-keepout lat,lon...        add a hand-drawn keep-out area (-label to name it)
  remove-keepout <id>           remove a keep-out area
  set-stayin lat,lon...         set the hand-drawn stay-in area
  clear-stayin                  remove the stay-in area
  toggle-keepout <area>         add or remove a catalog or prebuilt area as keep-out
  toggle-stayin <area>          set or clear a catalog or prebuilt area as stay-in
  set-line <slot> <axis> <deg>  set crossing line 1-4; axis is N/S or E/W
  clear-line <slot>             clear a crossing line
`)
	os.Exit(1)
}

func parsePoints(args []string) ([]math.LatLon, error) {
	var pts []math.LatLon
	for _, a := range args {
		lat, lon, ok := strings.Cut(a, ",")
		if !ok {
			return nil, fmt.Errorf("%q: expected lat,lon", a)
		}
		var p math.LatLon
		var err error
		if p[0], err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
			return nil, fmt.Errorf("%q: %w", a, err)
		}
		if p[1], err = strconv.ParseFloat(strings.TrimSpace(lon), 64); err != nil {
			return nil, fmt.Errorf("%q: %w", a, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// findArea resolves a catalog area by name or id, falling back to the
// prebuilt list.
func findArea(opts *options, ref string, lg *log.Logger) (geofence.Area, error) {
	d, err := loadCatalogData(opts, lg)
	if err != nil {
		return nil, err
	}
	if e, ok := d.findEntry(ref); ok {
		return geofence.NewCatalogArea(d.polygons, e), nil
	}
	if a, ok := sua.FindPrebuilt(d.prebuilt, ref); ok {
		return geofence.NewPrebuiltArea(a), nil
	}
	return nil, fmt.Errorf("%s: %w", ref, sua.ErrUnknownArea)
}

func parseSlot(s string) (int, error) {
	slot, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, geofence.ErrInvalidSlot)
	}
	return slot, nil
}

func runFence(opts *options, args []string, lg *log.Logger) error {
	if len(args) == 0 {
		fenceUsage()
	}
	op, args := strings.ToLower(args[0]), args[1:]
	nargs := func(n int) {
		if len(args) != n {
			fenceUsage()
		}
	}

	doc, err := loadSession(opts, lg)
	if err != nil {
		return err
	}
	f, err := geofence.FenceFromDocument(doc, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session: %v\n", err)
	}

	switch op {
	case "show":
		nargs(0)

	case "export":
		nargs(0)
		b, err := f.ToDocument().MarshalIndent()
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil

	case "import":
		nargs(1)
		b, err := util.ReadFile(args[0])
		if err != nil {
			return err
		}
		var e util.ErrorLogger
		e.Push(args[0])
		doc, err := geofence.ParseDocument(b, &e)
		if err != nil {
			return err
		}
		if f, err = geofence.FenceFromDocument(doc, lg); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
		}

	case "reset":
		nargs(0)
		f.Reset()

	case "add-keepout":
		pts, err := parsePoints(args)
		if err != nil {
			return err
		}
		id, err := f.AddKeepOut(pts, opts.label, geofence.HandSource())
		if err != nil {
			return err
		}
		fmt.Printf("added %s\n", id)

	case "remove-keepout":
		nargs(1)
		if err := f.RemoveKeepOut(args[0]); err != nil {
			return err
		}

	case "set-stayin":
		pts, err := parsePoints(args)
		if err != nil {
			return err
		}
		id, err := f.SetStayIn(pts, opts.label, geofence.HandSource())
		if err != nil {
			return err
		}
		fmt.Printf("set %s\n", id)

	case "clear-stayin":
		nargs(0)
		f.ClearStayIn()

	case "toggle-keepout", "toggle-stayin":
		nargs(1)
		area, err := findArea(opts, args[0], lg)
		if err != nil {
			return err
		}
		toggle := util.Select(op == "toggle-keepout", f.ToggleKeepOutFromArea, f.ToggleStayInFromArea)
		added, err := toggle(area)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", util.Select(added, "added", "removed"), area.Source())

	case "set-line":
		nargs(3)
		slot, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		if err := f.SetLineText(slot, args[1], args[2]); err != nil {
			return err
		}

	case "clear-line":
		nargs(1)
		slot, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		if err := f.ClearLine(slot); err != nil {
			return err
		}

	default:
		fenceUsage()
	}

	if err := saveSession(opts, f); err != nil {
		return err
	}
	fmt.Println(f.ToDocument().Summary())
	return nil
}

// cmd/suatool/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// suatool inspects and builds special use airspace catalogs and edits,
// projects and checks geofence documents.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/goforj/godump"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/saber-t2c/groundcontrol/log"
	"github.com/saber-t2c/groundcontrol/math"
	"github.com/saber-t2c/groundcontrol/render"
	"github.com/saber-t2c/groundcontrol/sua"
	"github.com/saber-t2c/groundcontrol/util"
)

type options struct {
	index, blob, metadata, prebuilt string
	logLevel, logDir                string
	session                         string
	calibration                     string
	width, height                   float64
	cacheSize                       int
	bbox                            string
	label                           string
	dump                            bool
}

// Flag defaults come from the environment, which may itself be seeded
// from a .env file in the working directory.
func parseFlags() *options {
	_ = godotenv.Load(".env")

	env := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}
	envFloat := func(key string, def float64) float64 {
		if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
			return v
		}
		return def
	}

	var o options
	flag.StringVar(&o.index, "index", env("SUA_INDEX", "sua_index.bin"), "SUA catalog index file (.zst allowed)")
	flag.StringVar(&o.blob, "blob", env("SUA_BLOB", "sua_blob.bin"), "SUA catalog geometry file (.zst allowed)")
	flag.StringVar(&o.metadata, "metadata", env("SUA_METADATA", ""), "optional catalog metadata JSON")
	flag.StringVar(&o.prebuilt, "prebuilt", env("SUA_PREBUILT", ""), "optional prebuilt areas CSV")
	flag.StringVar(&o.logLevel, "loglevel", env("SUATOOL_LOG_LEVEL", "info"), "logging level: debug, info, warn, error")
	flag.StringVar(&o.logDir, "logdir", env("SUATOOL_LOG_DIR", ""), "log file directory")
	flag.StringVar(&o.session, "session", env("SUATOOL_SESSION", "suatool/session.msgpack"), "fence session path in the cache directory")
	flag.StringVar(&o.calibration, "calibration", env("SUATOOL_CALIBRATION", ""), "JSON projector or landmark calibration for scene")
	flag.Float64Var(&o.width, "width", envFloat("SUATOOL_WIDTH", 2400), "scene image width in pixels")
	flag.Float64Var(&o.height, "height", envFloat("SUATOOL_HEIGHT", 1500), "scene image height in pixels")
	flag.IntVar(&o.cacheSize, "polycache", 256, "number of resolved catalog polygons to cache")
	flag.StringVar(&o.bbox, "bbox", "", "list: only areas overlapping minlat,minlon,maxlat,maxlon")
	flag.StringVar(&o.label, "label", "", "fence: label for a hand-drawn area")
	flag.BoolVar(&o.dump, "dump", false, "show: dump the decoded geometry")
	flag.Parse()

	if dir := os.Getenv("SUATOOL_CACHE_DIR"); dir != "" {
		util.CacheDir = dir
	}
	return &o
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: suatool [flags] <command> [args...]
where <command> is one of:
  list                          list catalog areas
  show <name|id>                show an area's geometry
  build <primitives.json> <out> build <out>_index.bin and <out>_blob.bin
  fence <op> [args...]          edit the fence session (fence help for ops)
  scene                         project and clip the session fence to JSON
  track <file>                  run fixes ("unix-seconds lat lon" lines) through the session fence
and [flags] may be:
`)
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	opts := parseFlags()
	if flag.NArg() == 0 {
		usage()
	}

	args := flag.Args()
	lg := log.New(opts.logLevel, opts.logDir).With(slog.String("command", args[0]))
	defer lg.CatchAndReportCrash()

	var err error
	switch strings.ToLower(args[0]) {
	case "list":
		err = runList(opts, lg)
	case "show":
		if len(args) != 2 {
			usage()
		}
		err = runShow(opts, args[1], lg)
	case "build":
		if len(args) != 3 {
			usage()
		}
		err = runBuild(args[1], args[2], lg)
	case "fence":
		err = runFence(opts, args[1:], lg)
	case "scene":
		err = runScene(opts, lg)
	case "track":
		if len(args) != 2 {
			usage()
		}
		err = runTrack(opts, args[1], lg)
	default:
		usage()
	}

	if err != nil {
		lg.Errorf("%s: %v", args[0], err)
		fmt.Fprintf(os.Stderr, "suatool: %v\n", err)
		os.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////
// Catalog loading

type catalogData struct {
	catalog  *sua.Catalog
	polygons *sua.PolygonCache
	metadata sua.Metadata
	prebuilt []sua.PrebuiltArea
}

// loadCatalogData reads the catalog, its metadata and the prebuilt area
// list concurrently. Missing files leave the corresponding part empty.
func loadCatalogData(opts *options, lg *log.Logger) (*catalogData, error) {
	var index, blob, metadata, prebuilt []byte

	var eg errgroup.Group
	read := func(path string, b *[]byte) {
		if path == "" {
			return
		}
		eg.Go(func() error {
			var err error
			*b, err = util.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				lg.Warnf("%s: not found", path)
				return nil
			}
			return err
		})
	}
	read(opts.index, &index)
	read(opts.blob, &blob)
	read(opts.metadata, &metadata)
	read(opts.prebuilt, &prebuilt)
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	d := &catalogData{
		catalog:  sua.LoadCatalogOrEmpty(index, blob, lg),
		prebuilt: sua.ParsePrebuiltCSVOrEmpty(prebuilt, lg),
	}
	d.polygons = sua.NewPolygonCache(d.catalog, opts.cacheSize, 0)

	if metadata != nil {
		var err error
		if d.metadata, err = sua.ParseMetadata(metadata); err != nil {
			lg.Warnf("%s: %v", opts.metadata, err)
		}
	}
	return d, nil
}

// findEntry looks an area up by name and then by hexadecimal id.
func (d *catalogData) findEntry(ref string) (sua.Entry, bool) {
	if e, ok := d.catalog.FindByName(ref); ok {
		return e, true
	}
	if id, err := strconv.ParseUint(strings.TrimPrefix(ref, "0x"), 16, 32); err == nil {
		return d.catalog.Lookup(uint32(id))
	}
	return sua.Entry{}, false
}

///////////////////////////////////////////////////////////////////////////
// list, show, build

func parseBBox(s string) (math.Extent2D, error) {
	f := strings.Split(s, ",")
	if len(f) != 4 {
		return math.Extent2D{}, fmt.Errorf("%q: expected minlat,minlon,maxlat,maxlon", s)
	}
	var v [4]float64
	for i := range f {
		var err error
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(f[i]), 64); err != nil {
			return math.Extent2D{}, fmt.Errorf("%q: %w", s, err)
		}
	}
	return math.Extent2D{P0: [2]float64{v[0], v[1]}, P1: [2]float64{v[2], v[3]}}, nil
}

func runList(opts *options, lg *log.Logger) error {
	d, err := loadCatalogData(opts, lg)
	if err != nil {
		return err
	}

	fmt.Println(d.metadata)
	if d.metadata.Extra != nil {
		for _, k := range d.metadata.Extra.Keys() {
			v, _ := d.metadata.Extra.Get(k)
			fmt.Printf("  %s: %v\n", k, v)
		}
	}

	entries := d.catalog.Entries()
	if opts.bbox != "" {
		extent, err := parseBBox(opts.bbox)
		if err != nil {
			return err
		}
		entries = d.catalog.Query(extent)
	}
	for _, e := range entries {
		fmt.Println(e)
	}
	if n := d.catalog.Skipped(); n > 0 {
		fmt.Printf("%d records skipped: %v\n", n, d.catalog.Problems())
	}
	for _, a := range d.prebuilt {
		fmt.Printf("%s (prebuilt, %d points)\n", a.Name, len(a.Polygon))
	}
	return nil
}

func runShow(opts *options, ref string, lg *log.Logger) error {
	d, err := loadCatalogData(opts, lg)
	if err != nil {
		return err
	}

	e, ok := d.findEntry(ref)
	if !ok {
		return fmt.Errorf("%s: %w", ref, sua.ErrUnknownArea)
	}
	g, err := d.catalog.Geometry(e)
	if err != nil {
		return err
	}

	fmt.Printf("%s type %q, %d ring(s)\n", e, g.TypeCode, len(g.Rings))
	if e.HasBounds {
		fmt.Printf("  bounds %s - %s\n", math.LatLon(e.Bounds.P0).DMSString(), math.LatLon(e.Bounds.P1).DMSString())
	}
	for i, r := range g.Rings {
		var arcs int
		for _, s := range r.Segments {
			if s.Kind == sua.SegmentArc {
				arcs++
			}
		}
		fmt.Printf("  ring %d: %d segments (%d arcs), %d points\n", i, len(r.Segments), arcs, len(sua.BuildRing(r)))
	}
	if poly, err := d.polygons.Polygon(e); err != nil {
		fmt.Printf("  not usable as a fence: %v\n", err)
	} else {
		fmt.Printf("  fence polygon: %d points\n", len(poly))
	}

	if opts.dump {
		godump.Dump(g)
	}
	return nil
}

func runBuild(primitivesPath, out string, lg *log.Logger) error {
	b, err := util.ReadFile(primitivesPath)
	if err != nil {
		return err
	}

	var e util.ErrorLogger
	e.Push(primitivesPath)
	cb, err := sua.BuildFromPrimitives(b, &e)
	if err != nil {
		return err
	}
	if e.HaveErrors() {
		e.LogErrors(lg)
		fmt.Fprintln(os.Stderr, e.String())
	}

	index, blob := cb.Build()
	if err := util.WriteFile(out+"_index.bin", index); err != nil {
		return err
	}
	if err := util.WriteFile(out+"_blob.bin", blob); err != nil {
		return err
	}

	lg.Infof("%s: built %d areas", out, cb.Len())
	fmt.Printf("%d areas: %s_index.bin (%d bytes), %s_blob.bin (%d bytes)\n", cb.Len(), out, len(index), out, len(blob))
	return nil
}

///////////////////////////////////////////////////////////////////////////
// scene

type calibration struct {
	Projector *render.Projector `json:"projector"`
	Landmarks []render.Landmark `json:"landmarks"`
}

func loadProjector(path string) (render.Projector, error) {
	if path == "" {
		return render.CONUSProjector, nil
	}

	b, err := util.ReadFile(path)
	if err != nil {
		return render.Projector{}, err
	}
	var c calibration
	if err := util.UnmarshalJSON(b, &c); err != nil {
		return render.Projector{}, fmt.Errorf("%s: %w", path, err)
	}
	switch {
	case c.Projector != nil:
		return *c.Projector, nil
	case len(c.Landmarks) > 0:
		return render.FitProjector(c.Landmarks)
	default:
		return render.Projector{}, fmt.Errorf("%s: no projector or landmarks", path)
	}
}

func runScene(opts *options, lg *log.Logger) error {
	proj, err := loadProjector(opts.calibration)
	if err != nil {
		return err
	}
	lg.Debugf("projector: %s", proj)

	doc, err := loadSession(opts, lg)
	if err != nil {
		return err
	}

	scene := render.BuildScene(doc, proj, opts.width, opts.height)
	b, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// util/files_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte("SIA1 catalog bytes "), 200)

	for _, name := range []string{"index.bin", "index.bin.zst"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, data); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: contents changed in round trip", name)
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, "index.bin.zst"))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) >= len(data) {
		t.Errorf("compressed file is %d bytes, original %d", len(raw), len(data))
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.bin")); err == nil {
		t.Errorf("expected error for missing file")
	}
	if _, err := DecompressZstd([]byte("not zstd")); err == nil {
		t.Errorf("expected error decompressing garbage")
	}
}

func TestCacheObject(t *testing.T) {
	CacheDir = t.TempDir()
	defer func() { CacheDir = "" }()

	type session struct {
		Name  string
		Lines []float64
	}
	in := session{Name: "mission", Lines: []float64{-100.5, 35}}

	before := time.Now().Add(-time.Second)
	if err := CacheStoreObject("fence/session.msgpack", in); err != nil {
		t.Fatal(err)
	}

	var out session
	when, err := CacheRetrieveObject("fence/session.msgpack", &out)
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != in.Name || len(out.Lines) != 2 || out.Lines[0] != -100.5 || out.Lines[1] != 35 {
		t.Errorf("got %+v, want %+v", out, in)
	}
	if when.Before(before) {
		t.Errorf("stored time %v is before %v", when, before)
	}

	if err := CacheRemoveObject("fence/session.msgpack"); err != nil {
		t.Fatal(err)
	}
	if err := CacheRemoveObject("fence/session.msgpack"); err != nil {
		t.Errorf("removing a missing object: %v", err)
	}
	if _, err := CacheRetrieveObject("fence/session.msgpack", &out); err == nil {
		t.Errorf("expected error retrieving removed object")
	}
}

// sua/wire.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"bytes"
	"encoding/binary"
)

// Magic is the 4-byte tag at the start of both catalog files.
const Magic = "SIA1"

const (
	indexHeaderSize = 16
	blobHeaderSize  = 20
	minEntrySize    = 16
	bboxEntrySize   = 32
	fixedPointScale = 1e6
)

// cursor is a little-endian reader over buf[off:limit]. The first read
// that would cross limit sets err and all subsequent reads return zero,
// so callers can decode a run of fields and check err once.
type cursor struct {
	buf   []byte
	off   uint64
	limit uint64
	err   error
}

func newCursor(buf []byte, off, limit uint64) *cursor {
	c := &cursor{buf: buf, off: off, limit: min(limit, uint64(len(buf)))}
	if off > c.limit {
		c.err = ErrBounds
	}
	return c
}

func (c *cursor) take(n uint64) []byte {
	if c.err != nil {
		return nil
	}
	if c.off+n > c.limit {
		c.err = ErrBounds
		return nil
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

func (c *cursor) skip(n uint64) {
	c.take(n)
}

func (c *cursor) u8() uint8 {
	if b := c.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (c *cursor) u16() uint16 {
	if b := c.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (c *cursor) u32() uint32 {
	if b := c.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (c *cursor) i32() int32 {
	return int32(c.u32())
}

// degrees reads a fixed-point int32 scaled by 1e6.
func (c *cursor) degrees() float64 {
	return float64(c.i32()) / fixedPointScale
}

// cString returns the NUL-terminated string that starts at off; ok is
// false if off is outside buf or there's no terminator before the end.
func cString(buf []byte, off uint64) (string, bool) {
	if off >= uint64(len(buf)) {
		return "", false
	}
	n := bytes.IndexByte(buf[off:], 0)
	if n < 0 {
		return "", false
	}
	return string(buf[off : off+uint64(n)]), true
}

func hasMagic(b []byte) bool {
	return len(b) >= len(Magic) && string(b[:len(Magic)]) == Magic
}

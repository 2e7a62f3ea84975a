// sua/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sua

import (
	"errors"
	"fmt"
)

var (
	ErrFormat           = errors.New("Invalid SUA catalog format")
	ErrBounds           = errors.New("Offset outside catalog buffer")
	ErrUnusableGeometry = errors.New("Unusable area geometry")
	ErrUnknownArea      = errors.New("No such area in catalog")
)

// FormatError reports a bad magic number or an unparseable header. It is
// fatal to the catalog load; callers fall back to EmptyCatalog.
type FormatError struct {
	Buffer string // "index" or "blob"
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrFormat, e.Buffer, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// BoundsError reports a single index record whose offsets or lengths
// would read outside its buffer. Only that record is skipped.
type BoundsError struct {
	Record int
	Field  string
	Offset uint64
	Length uint64
	Size   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("record %d: %s [%d, %d) outside %d-byte buffer", e.Record, e.Field,
		e.Offset, e.Offset+e.Length, e.Size)
}

func (e *BoundsError) Unwrap() error { return ErrBounds }

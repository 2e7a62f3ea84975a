// util/error.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/saber-t2c/groundcontrol/log"
)

// ErrorLogger is a small utility class used to log errors when validating
// loaded documents, catalogs and area lists. It tracks context about what
// is currently being validated and accumulates multiple errors, making it
// possible to log errors while still continuing validation.
type ErrorLogger struct {
	// Tracked via Push()/Pop() calls to remember what we're looking at if
	// an error is found.
	hierarchy []string
	// Actual errors to report.
	errors []error
}

func (e *ErrorLogger) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *ErrorLogger) Pop() {
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

func (e *ErrorLogger) prefix() string {
	if len(e.hierarchy) == 0 {
		return ""
	}
	return strings.Join(e.hierarchy, " / ") + ": "
}

func (e *ErrorLogger) ErrorString(s string, args ...interface{}) {
	e.errors = append(e.errors, errors.New(e.prefix()+fmt.Sprintf(s, args...)))
}

// Error records err along with the current context; the original error
// remains reachable via errors.Is/errors.As on the result of Err.
func (e *ErrorLogger) Error(err error) {
	if p := e.prefix(); p != "" {
		err = fmt.Errorf("%s%w", p, err)
	}
	e.errors = append(e.errors, err)
}

func (e *ErrorLogger) HaveErrors() bool {
	return e != nil && len(e.errors) > 0
}

func (e *ErrorLogger) Count() int {
	if e == nil {
		return 0
	}
	return len(e.errors)
}

// Err returns all of the accumulated errors joined together, or nil if
// there were none.
func (e *ErrorLogger) Err() error {
	if !e.HaveErrors() {
		return nil
	}
	return errors.Join(e.errors...)
}

func (e *ErrorLogger) LogErrors(lg *log.Logger) {
	for _, err := range e.errors {
		lg.Warnf("%v", err)
	}
}

func (e *ErrorLogger) String() string {
	var s []string
	for _, err := range e.errors {
		s = append(s, err.Error())
	}
	return strings.Join(s, "\n")
}

func (e *ErrorLogger) CurrentDepth() int {
	if e == nil {
		return 0
	}
	return len(e.hierarchy)
}

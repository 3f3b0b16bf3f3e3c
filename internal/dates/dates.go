// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dates holds the small date helpers shared by the search and
// normalize stages. All dates are calendar days in UTC rendered as YYYY-MM-DD.
package dates

import (
	"math"
	"regexp"
	"time"
)

// Layout is the only accepted item date format.
const Layout = "2006-01-02"

// DefaultDays is the size of the research window.
const DefaultDays = 30

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsISODate reports whether s has the strict 4-2-2 digit shape. It checks
// format only: "2024-13-40" passes, "2024-1-5" does not.
func IsISODate(s string) bool {
	return isoDateRe.MatchString(s)
}

// maxEpochSeconds is 9999-12-31T23:59:59Z, the last instant Layout can
// render with a four-digit year.
const maxEpochSeconds = 253402300799

// FromEpochSeconds converts a Unix timestamp to a YYYY-MM-DD string.
// Non-positive, NaN, infinite and post-9999 values yield nil.
func FromEpochSeconds(sec float64) *string {
	if sec <= 0 || sec > maxEpochSeconds || math.IsNaN(sec) {
		return nil
	}
	s := time.Unix(int64(sec), 0).UTC().Format(Layout)
	return &s
}

// Window is an inclusive date range.
type Window struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// NewWindow returns the window covering the last days days up to now.
// A non-positive days uses DefaultDays.
func NewWindow(days int, now time.Time) Window {
	if days <= 0 {
		days = DefaultDays
	}
	now = now.UTC()
	return Window{
		From: now.AddDate(0, 0, -days).Format(Layout),
		To:   now.Format(Layout),
	}
}

// Contains reports whether date falls inside the window. Dates that are not
// ISO formatted are treated as outside. An empty bound is open.
func (w Window) Contains(date string) bool {
	if !IsISODate(date) {
		return false
	}
	// Lexical comparison is valid for zero-padded YYYY-MM-DD.
	if w.From != "" && date < w.From {
		return false
	}
	if w.To != "" && date > w.To {
		return false
	}
	return true
}

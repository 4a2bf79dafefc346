// Package dateutil parses and formats the document lastUpdated date.
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate indicates a date that does not match the accepted layout.
var ErrInvalidDate = errors.New("invalid date")

// ISOLayout is the layout documents declare lastUpdated in.
const ISOLayout = "2006-01-02"

// displayLayout is the human-readable form shown on rendered pages.
const displayLayout = "January 2, 2006"

// Parse reads an ISO (YYYY-MM-DD) date string.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not %s", ErrInvalidDate, value, ISOLayout)
	}
	return t, nil
}

// Display converts an ISO date to its human-readable form, e.g.
// "2026-01-15" -> "January 15, 2026". Empty input stays empty; anything
// unparseable is returned unchanged so a bad date never blanks the page.
func Display(value string) string {
	if value == "" {
		return ""
	}
	t, err := Parse(value)
	if err != nil {
		return value
	}
	return t.Format(displayLayout)
}

// DaysSince returns the whole days elapsed between an ISO date and now.
// Returns -1 when the value is empty or unparseable.
func DaysSince(value string, now time.Time) int {
	t, err := Parse(value)
	if err != nil {
		return -1
	}
	days := int(now.Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

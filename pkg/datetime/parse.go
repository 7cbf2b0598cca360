// Package datetime provides calendar-date utilities. Every function works on
// local calendar fields (year, month, day in a given location) and never on a
// UTC conversion, so keys and day counts do not shift across time zones or
// daylight-saving transitions.
package datetime

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/constants"
)

// DateLayout is the format expected for dates in config files and requests.
const DateLayout = constants.DateLayout

// ErrInvalidRange is returned when a range ends before it starts.
var ErrInvalidRange = errors.New("range end is before range start")

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// Range is an inclusive range of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange normalizes start and end to midnight of their calendar day in loc
// and checks that end is not before start.
func NewRange(start, end time.Time, loc *time.Location) (Range, error) {
	r := Range{Start: StartOfDay(start, loc), End: StartOfDay(end, loc)}
	if r.End.Before(r.Start) {
		return r, fmt.Errorf("%w: %s > %s", ErrInvalidRange, r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return r, nil
}

// ParseRange parses two YYYY-MM-DD strings as local dates in loc.
func ParseRange(start, end string, loc *time.Location) (Range, error) {
	startT, err := ParseLocalDate(start, loc)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range start: %w", err)
	}
	endT, err := ParseLocalDate(end, loc)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range end: %w", err)
	}
	return NewRange(startT, endT, loc)
}

// Days returns the number of days between the range bounds.
func (r Range) Days() int {
	return DiffDays(r.Start, r.End)
}

// Contains reports whether t falls on a calendar day inside the range in loc.
func (r Range) Contains(t time.Time, loc *time.Location) bool {
	day := StartOfDay(t, loc)
	return !day.Before(r.Start) && !day.After(r.End)
}

// UpperBound returns the first instant after the range, for half-open queries.
func (r Range) UpperBound() time.Time {
	return r.End.AddDate(0, 0, 1)
}

// String formats the range as "start..end".
func (r Range) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// ParseLocalDate parses a YYYY-MM-DD string as midnight in loc.
func ParseLocalDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
}

// ParseTimestamp accepts a bare date or one of the common timestamp layouts.
// Bare dates and timestamps without an offset are read in loc; timestamps with
// an offset keep it and are converted to loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := ParseLocalDate(trimmed, loc); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth returns midnight of the first day of t's month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}

// DiffDays counts the calendar days from start to end using their own
// calendar fields. A 23 or 25 hour DST day still counts as one day.
func DiffDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// DayKey is the lookup key of a daily bucket: YYYY-MM-DD from local fields.
func DayKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// MonthKey is the lookup key of a monthly bucket: YYYY-M with a zero-based month.
func MonthKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%d-%d", t.Year(), MonthIndex(t))
}

// MonthIndex returns the zero-based month of t.
func MonthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

// MustParseLocalDate parses a YYYY-MM-DD date in loc and panics on error.
func MustParseLocalDate(dateStr string, loc *time.Location) time.Time {
	t, err := ParseLocalDate(dateStr, loc)
	if err != nil {
		panic(err)
	}
	return t
}

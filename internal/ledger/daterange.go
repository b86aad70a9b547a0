package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the input layout for range bounds.
const DateLayout = "2006-01-02"

// DisplayLayout is how dates are printed on listings and statements.
const DisplayLayout = "02-01-2006"

// ErrEndBeforeStart is reported when both bounds are set and the end date
// precedes the start date.
var ErrEndBeforeStart = errors.New("End date must be greater than Start date")

// DateRange is an optional inclusive day range. A zero bound is absent.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses YYYY-MM-DD bounds in loc. Empty strings leave the
// bound unset. The returned range may still be invalid; check Err.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	const op = "ParseDateRange"

	if loc == nil {
		loc = time.Local
	}

	var r DateRange
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("%s: invalid start date %q: %w", op, s, err)
		}
		r.Start = t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, err := time.ParseInLocation(DateLayout, e, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("%s: invalid end date %q: %w", op, e, err)
		}
		r.End = t
	}
	return r, nil
}

// HasStart reports whether a lower bound is set.
func (r DateRange) HasStart() bool { return !r.Start.IsZero() }

// HasEnd reports whether an upper bound is set.
func (r DateRange) HasEnd() bool { return !r.End.IsZero() }

// Err returns ErrEndBeforeStart for an inverted range and nil otherwise.
func (r DateRange) Err() error {
	if r.HasStart() && r.HasEnd() && r.endOfDay().Before(r.startOfDay()) {
		return ErrEndBeforeStart
	}
	return nil
}

// Valid reports whether the range can match anything at all.
func (r DateRange) Valid() bool {
	return r.Err() == nil
}

// Contains reports whether t falls inside the bounds. The start is inclusive
// from midnight and the end is inclusive through 23:59:59.999. A zero t is
// unconstrained by either bound. Contains does not look at validity.
func (r DateRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	if r.HasStart() && t.Before(r.startOfDay()) {
		return false
	}
	if r.HasEnd() && t.After(r.endOfDay()) {
		return false
	}
	return true
}

// Label describes the range for headers, footers and filenames.
func (r DateRange) Label() string {
	switch {
	case r.HasStart() && r.HasEnd():
		return FormatDMY(r.Start) + " to " + FormatDMY(r.End)
	case r.HasStart():
		return "From " + FormatDMY(r.Start)
	case r.HasEnd():
		return "Upto " + FormatDMY(r.End)
	default:
		return "All Dates"
	}
}

func (r DateRange) startOfDay() time.Time {
	y, m, d := r.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Start.Location())
}

func (r DateRange) endOfDay() time.Time {
	y, m, d := r.End.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), r.End.Location())
}

// FormatDMY prints a date as DD-MM-YYYY, or "-" for the zero time.
func FormatDMY(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DisplayLayout)
}

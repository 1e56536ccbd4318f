// Package dates holds the calendar helpers the matching passes share:
// strict ISO parsing and closest-date selection.
package dates

import (
	"errors"
	"fmt"
	"time"
)

// ISO is the only date layout the engine accepts.
const ISO = "2006-01-02"

// ErrInvalidDate marks a date string that is not ISO YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// Parse parses a strict ISO YYYY-MM-DD date. Anything else fails with
// ErrInvalidDate; callers decide whether to skip or abort.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(ISO, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DaysApart returns the absolute distance between two dates in whole days.
func DaysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}

// Closest returns the element of candidates nearest to ref by absolute day
// distance. Ties go to the earliest calendar date so repeated runs pick
// the same candidate. The second result is false when candidates is empty.
func Closest(candidates []time.Time, ref time.Time) (time.Time, bool) {
	if len(candidates) == 0 {
		return time.Time{}, false
	}
	best := candidates[0]
	bestDist := DaysApart(best, ref)
	for _, c := range candidates[1:] {
		dist := DaysApart(c, ref)
		if dist < bestDist || (dist == bestDist && c.Before(best)) {
			best = c
			bestDist = dist
		}
	}
	return best, true
}

package billing

import (
	"fmt"
	"time"
)

// All engine dates are calendar days: UTC midnight, no time-of-day. Overdue
// checks compare whole days, so a caller's timezone can never shift a period
// into a different day.

// Date builds a calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayOf truncates t to its calendar day, taking the year, month and day
// components literally instead of converting between locations. A stored
// "2024-03-01T00:00:00Z" stays March 1st even for a UTC-5 caller.
func DayOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a bare YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// BeforeDay reports whether a falls on an earlier calendar day than b.
// Equal days are not "before": a period due today is not yet overdue.
func BeforeDay(a, b time.Time) bool {
	return DayOf(a).Before(DayOf(b))
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Clock supplies "today" so overdue math stays deterministic under test.
type Clock interface {
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Today() time.Time { return DayOf(time.Now()) }

// SystemClock returns the wall-clock implementation used in production.
func SystemClock() Clock { return systemClock{} }

// FixedClock is a Clock pinned to one day.
type FixedClock struct {
	Day time.Time
}

func (c FixedClock) Today() time.Time { return DayOf(c.Day) }

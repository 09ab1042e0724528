package calendar

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// AddDays returns k shifted by n whole calendar days. n may be negative.
// A result outside years 0000-9999 returns ErrInvalidRange.
func AddDays(k DateKey, n int) (DateKey, error) {
	t, err := k.Time()
	if err != nil {
		return "", err
	}
	return fromTime(t.AddDate(0, 0, n))
}

// SubMonths returns k moved back n calendar months, normalising overflowing
// days the way time.AddDate does (Mar 31 minus one month is Mar 3 or 2).
func SubMonths(k DateKey, n int) (DateKey, error) {
	t, err := k.Time()
	if err != nil {
		return "", err
	}
	return fromTime(t.AddDate(0, -n, 0))
}

// fromTime formats t as a key, rejecting years a key cannot represent.
func fromTime(t time.Time) (DateKey, error) {
	if y := t.Year(); y < 0 || y > 9999 {
		return "", fmt.Errorf("%w: year %d out of bounds", ErrInvalidRange, y)
	}
	return DateKey(t.Format(Layout)), nil
}

// DaysBetweenInclusive returns the number of calendar days in [start, end].
// Returns ErrInvalidRange when end is before start.
func DaysBetweenInclusive(start, end DateKey) (int, error) {
	s, err := start.Time()
	if err != nil {
		return 0, err
	}
	e, err := end.Time()
	if err != nil {
		return 0, err
	}
	if e.Before(s) {
		return 0, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, end, start)
	}
	// Both sides are UTC midnights, so the difference is an exact multiple of a day.
	return int(e.Sub(s)/day) + 1, nil
}

// StartOfYear returns January 1st of k's year.
func StartOfYear(k DateKey) (DateKey, error) {
	t, err := k.Time()
	if err != nil {
		return "", err
	}
	return DateKey(time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC).Format(Layout)), nil
}

// EndOfYear returns December 31st of k's year.
func EndOfYear(k DateKey) (DateKey, error) {
	t, err := k.Time()
	if err != nil {
		return "", err
	}
	return DateKey(time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC).Format(Layout)), nil
}

// Range returns every date key in [start, end] in ascending order.
func Range(start, end DateKey) ([]DateKey, error) {
	n, err := DaysBetweenInclusive(start, end)
	if err != nil {
		return nil, err
	}
	s, _ := start.Time()

	keys := make([]DateKey, n)
	for i := 0; i < n; i++ {
		keys[i] = DateKey(s.AddDate(0, 0, i).Format(Layout))
	}
	return keys, nil
}

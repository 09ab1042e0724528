// Package calendar implements whole-day calendar arithmetic on canonical
// YYYY-MM-DD date keys. All computation happens on UTC midnights so results
// never depend on the local zone or on daylight-saving transitions.
package calendar

import (
	"fmt"
	"regexp"
	"time"
)

// Layout is the canonical date key layout.
const Layout = "2006-01-02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateKey is a calendar date in canonical YYYY-MM-DD form.
type DateKey string

// String returns the key as a plain string.
func (k DateKey) String() string {
	return string(k)
}

// ParseDateKey validates s and returns it as a DateKey.
// Only strings already in YYYY-MM-DD form that name a real calendar day are
// accepted; nothing is reformatted.
func ParseDateKey(s string) (DateKey, error) {
	if !dateKeyPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if _, err := time.Parse(Layout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateKey(s), nil
}

// ToDateKey reduces t to its calendar date in t's own location.
// The zero time.Time means "unset" and returns ErrInvalidDate, even though it
// falls on 0001-01-01.
func ToDateKey(t time.Time) (DateKey, error) {
	if t.IsZero() {
		return "", fmt.Errorf("%w: zero time", ErrInvalidDate)
	}
	return DateKey(t.Format(Layout)), nil
}

// Today returns the date key for now as observed in loc.
func Today(now time.Time, loc *time.Location) DateKey {
	if loc == nil {
		loc = time.UTC
	}
	return DateKey(now.In(loc).Format(Layout))
}

// MustParse is ParseDateKey for constants and tests. It panics on invalid input.
func MustParse(s string) DateKey {
	k, err := ParseDateKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Time returns the UTC midnight of k.
func (k DateKey) Time() (time.Time, error) {
	if !dateKeyPattern.MatchString(string(k)) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, string(k))
	}
	t, err := time.Parse(Layout, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, string(k))
	}
	return t, nil
}

// Valid reports whether k is a well-formed calendar date.
func (k DateKey) Valid() bool {
	_, err := k.Time()
	return err == nil
}

// Before reports whether k is strictly earlier than other.
// Canonical keys order lexically the same as chronologically.
func (k DateKey) Before(other DateKey) bool {
	return k < other
}

// After reports whether k is strictly later than other.
func (k DateKey) After(other DateKey) bool {
	return k > other
}

// Weekday returns the day of week for k.
func (k DateKey) Weekday() (time.Weekday, error) {
	t, err := k.Time()
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// Year returns the calendar year of k.
func (k DateKey) Year() (int, error) {
	t, err := k.Time()
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

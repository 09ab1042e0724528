// Package period turns a dashboard range selection into concrete calendar
// windows, derives the equal-length window that precedes it, and diffs two
// aggregate snapshots taken over those windows.
//
// Everything here is pure: "today" is always passed in.
package period

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultWindowDays is used when a fixed selector carries a non-positive or
// unparseable day count.
const DefaultWindowDays = 30

// Kind identifies the active variant of a Selector.
type Kind string

const (
	KindFixed      Kind = "fixed"
	KindCustom     Kind = "custom"
	KindYearToDate Kind = "ytd"
)

// Selector is a tagged range selection. Exactly one variant is active; the
// constructors are the only way to build one, so day counts and custom bounds
// never mix.
type Selector struct {
	kind Kind
	days int
	from *string
	to   *string
}

// Fixed selects the trailing days-long window ending today.
func Fixed(days int) Selector {
	return Selector{kind: KindFixed, days: days}
}

// Custom selects an explicit [from, to] span. Either bound may be nil while
// the user is still picking dates.
func Custom(from, to *string) Selector {
	return Selector{kind: KindCustom, from: copyString(from), to: copyString(to)}
}

// YearToDate selects January 1st of the current year through today.
func YearToDate() Selector {
	return Selector{kind: KindYearToDate}
}

// ParseSelector builds a Selector from the dashboard's query parameters:
// range is "custom", "ytd" (or "year-to-date"), or a day count. Empty from/to
// values are treated as not yet chosen. Anything else is a fixed selector whose
// day count falls back to DefaultWindowDays at resolution time.
func ParseSelector(rangeParam, from, to string) Selector {
	switch strings.ToLower(strings.TrimSpace(rangeParam)) {
	case "custom":
		return Custom(nonEmpty(from), nonEmpty(to))
	case "ytd", "year-to-date":
		return YearToDate()
	}

	days, err := strconv.Atoi(strings.TrimSpace(rangeParam))
	if err != nil {
		return Fixed(0)
	}
	return Fixed(days)
}

// Kind returns the active variant.
func (s Selector) Kind() Kind {
	if s.kind == "" {
		return KindFixed
	}
	return s.kind
}

// Days returns the requested day count of a fixed selector, as given.
func (s Selector) Days() int {
	return s.days
}

// EffectiveDays returns the day count a fixed selector resolves with.
func (s Selector) EffectiveDays() int {
	if s.days <= 0 {
		return DefaultWindowDays
	}
	return s.days
}

// Bounds returns the custom bounds. Either may be nil.
func (s Selector) Bounds() (from, to *string) {
	return copyString(s.from), copyString(s.to)
}

// String returns a stable description of the selection, suitable for logging
// and for request tokens.
func (s Selector) String() string {
	switch s.Kind() {
	case KindCustom:
		return fmt.Sprintf("custom:%s..%s", deref(s.from), deref(s.to))
	case KindYearToDate:
		return "ytd"
	default:
		return fmt.Sprintf("fixed:%d", s.EffectiveDays())
	}
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

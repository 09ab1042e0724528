package period

import (
	"fmt"

	"engagement-dashboard/internal/calendar"
)

// ResolveWindow turns sel into a concrete window relative to today.
//
// Fixed selectors end today and span EffectiveDays days. Custom selectors with a
// missing or malformed endpoint resolve to NotReady without error; an inverted
// custom range (from after to) returns calendar.ErrInvalidRange, as does a
// fixed span reaching before year 0000.
func ResolveWindow(sel Selector, today calendar.DateKey) (Window, error) {
	if _, err := today.Time(); err != nil {
		return NotReady, fmt.Errorf("resolve window: today: %w", err)
	}

	switch sel.Kind() {
	case KindCustom:
		return resolveCustom(sel)
	case KindYearToDate:
		start, err := calendar.StartOfYear(today)
		if err != nil {
			return NotReady, err
		}
		return newWindow(start, today)
	default:
		days := sel.EffectiveDays()
		start, err := calendar.AddDays(today, -(days - 1))
		if err != nil {
			return NotReady, fmt.Errorf("resolve fixed window of %d days: %w", days, err)
		}
		return Window{Ready: true, Start: start, End: today, LengthDays: days}, nil
	}
}

func resolveCustom(sel Selector) (Window, error) {
	if sel.from == nil || sel.to == nil {
		return NotReady, nil
	}
	from, err := calendar.ParseDateKey(*sel.from)
	if err != nil {
		return NotReady, nil
	}
	to, err := calendar.ParseDateKey(*sel.to)
	if err != nil {
		return NotReady, nil
	}
	if to.Before(from) {
		return NotReady, fmt.Errorf("resolve custom window %s..%s: %w", from, to, calendar.ErrInvalidRange)
	}
	return newWindow(from, to)
}

func newWindow(start, end calendar.DateKey) (Window, error) {
	n, err := calendar.DaysBetweenInclusive(start, end)
	if err != nil {
		return NotReady, err
	}
	return Window{Ready: true, Start: start, End: end, LengthDays: n}, nil
}

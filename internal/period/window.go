package period

import (
	"encoding/json"

	"engagement-dashboard/internal/calendar"
)

// Window is a contiguous inclusive span of calendar days.
//
// When Ready is false the span is unknown (a custom range with a missing
// endpoint) and Start, End and LengthDays are zero; callers must not query.
// When Ready is true, Start <= End and LengthDays == End-Start+1.
type Window struct {
	Ready      bool
	Start      calendar.DateKey
	End        calendar.DateKey
	LengthDays int
}

// NotReady is the window of an incomplete custom selection.
var NotReady = Window{}

// Contains reports whether k falls inside a ready window.
func (w Window) Contains(k calendar.DateKey) bool {
	return w.Ready && !k.Before(w.Start) && !k.After(w.End)
}

// Overlaps reports whether two ready windows share at least one day.
func (w Window) Overlaps(other Window) bool {
	if !w.Ready || !other.Ready {
		return false
	}
	return !w.End.Before(other.Start) && !other.End.Before(w.Start)
}

type windowJSON struct {
	Ready      bool    `json:"ready"`
	Start      *string `json:"start"`
	End        *string `json:"end"`
	LengthDays *int    `json:"length_days"`
}

// MarshalJSON encodes the bounds of a not-ready window as null.
func (w Window) MarshalJSON() ([]byte, error) {
	out := windowJSON{Ready: w.Ready}
	if w.Ready {
		start, end, length := w.Start.String(), w.End.String(), w.LengthDays
		out.Start, out.End, out.LengthDays = &start, &end, &length
	}
	return json.Marshal(out)
}

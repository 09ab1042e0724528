package period

import (
	"fmt"

	"engagement-dashboard/internal/calendar"
)

// DeriveComparisonWindow returns the window of identical length that ends the
// day before w starts. The result is always ready.
//
// Returns calendar.ErrInvalidRange when w is not ready or has a non-positive length.
func DeriveComparisonWindow(w Window) (Window, error) {
	if !w.Ready {
		return NotReady, fmt.Errorf("derive comparison window: window not ready: %w", calendar.ErrInvalidRange)
	}
	if w.LengthDays <= 0 {
		return NotReady, fmt.Errorf("derive comparison window: length %d: %w", w.LengthDays, calendar.ErrInvalidRange)
	}

	prevEnd, err := calendar.AddDays(w.Start, -1)
	if err != nil {
		return NotReady, fmt.Errorf("derive comparison window: %w", err)
	}
	prevStart, err := calendar.AddDays(prevEnd, -(w.LengthDays - 1))
	if err != nil {
		return NotReady, fmt.Errorf("derive comparison window: %w", err)
	}

	return Window{Ready: true, Start: prevStart, End: prevEnd, LengthDays: w.LengthDays}, nil
}

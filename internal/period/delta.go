package period

import "encoding/json"

// Snapshot maps metric names to counts for one subject over one window.
// A nil Snapshot means no data has been fetched; an empty non-nil Snapshot
// means the fetch returned nothing, so every metric reads as zero.
type Snapshot map[string]int64

// Value returns the count for metric, or nil when the snapshot is absent.
// A present snapshot without the key yields zero.
func (s Snapshot) Value(metric string) *int64 {
	if s == nil {
		return nil
	}
	v := s[metric]
	return &v
}

// Direction is the sign of a delta. The zero value means no comparison was possible.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// ShowIndicator reports whether a trend arrow should be drawn.
// Flat and missing deltas both render without one.
func (d Direction) ShowIndicator() bool {
	return d == DirectionUp || d == DirectionDown
}

// Arrow returns the glyph for an up or down delta and "" otherwise.
func (d Direction) Arrow() string {
	switch d {
	case DirectionUp:
		return "↑"
	case DirectionDown:
		return "↓"
	default:
		return ""
	}
}

// MarshalJSON encodes DirectionNone as null.
func (d Direction) MarshalJSON() ([]byte, error) {
	if d == DirectionNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// Delta compares one metric across the current and previous windows.
// Diff and Direction are unset whenever either side is unknown.
type Delta struct {
	Current   *int64    `json:"current"`
	Previous  *int64    `json:"previous"`
	Diff      *int64    `json:"diff"`
	Direction Direction `json:"direction"`
}

// Abs returns the magnitude of the diff, or zero when there is none.
func (d Delta) Abs() int64 {
	if d.Diff == nil {
		return 0
	}
	if *d.Diff < 0 {
		return -*d.Diff
	}
	return *d.Diff
}

// FormatDeltas compares current and previous for each name in metrics.
// Keys present in the snapshots but not listed are ignored.
func FormatDeltas(current, previous Snapshot, metrics []string) map[string]Delta {
	out := make(map[string]Delta, len(metrics))
	for _, m := range metrics {
		d := Delta{
			Current:  current.Value(m),
			Previous: previous.Value(m),
		}
		if d.Current != nil && d.Previous != nil {
			diff := *d.Current - *d.Previous
			d.Diff = &diff
			d.Direction = directionOf(diff)
		}
		out[m] = d
	}
	return out
}

func directionOf(diff int64) Direction {
	switch {
	case diff > 0:
		return DirectionUp
	case diff < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

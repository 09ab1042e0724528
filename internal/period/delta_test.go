package period

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func TestFormatDeltas_Up(t *testing.T) {
	got := FormatDeltas(Snapshot{"bio": 50}, Snapshot{"bio": 40}, []string{"bio"})

	want := map[string]Delta{
		"bio": {Current: i64(50), Previous: i64(40), Diff: i64(10), Direction: DirectionUp},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormatDeltas mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDeltas_PreviousAbsent(t *testing.T) {
	got := FormatDeltas(Snapshot{"bio": 50}, nil, []string{"bio"})

	want := map[string]Delta{
		"bio": {Current: i64(50)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormatDeltas mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got["bio"].Direction.ShowIndicator())
}

func TestFormatDeltas_CurrentAbsent(t *testing.T) {
	got := FormatDeltas(nil, Snapshot{"bio": 3}, []string{"bio"})

	d := got["bio"]
	assert.Nil(t, d.Current)
	require.NotNil(t, d.Previous)
	assert.Equal(t, int64(3), *d.Previous)
	assert.Nil(t, d.Diff)
	assert.Equal(t, DirectionNone, d.Direction)
}

func TestFormatDeltas_MissingKeyIsZero(t *testing.T) {
	got := FormatDeltas(Snapshot{}, Snapshot{"news_clicks": 4}, []string{"news_clicks"})

	d := got["news_clicks"]
	require.NotNil(t, d.Current)
	assert.Equal(t, int64(0), *d.Current)
	assert.Equal(t, int64(-4), *d.Diff)
	assert.Equal(t, DirectionDown, d.Direction)
	assert.Equal(t, int64(4), d.Abs())
}

func TestFormatDeltas_FlatHasNoIndicator(t *testing.T) {
	got := FormatDeltas(Snapshot{"bio_clicks": 7}, Snapshot{"bio_clicks": 7}, []string{"bio_clicks"})

	d := got["bio_clicks"]
	assert.Equal(t, int64(0), *d.Diff)
	assert.Equal(t, DirectionFlat, d.Direction)
	assert.False(t, d.Direction.ShowIndicator())
	assert.Equal(t, "", d.Direction.Arrow())
}

func TestFormatDeltas_IgnoresUnlistedKeys(t *testing.T) {
	got := FormatDeltas(Snapshot{"bio": 1, "other": 9}, Snapshot{"bio": 1, "other": 2}, []string{"bio"})
	assert.Len(t, got, 1)
	assert.Contains(t, got, "bio")
}

func TestFormatDeltas_Idempotent(t *testing.T) {
	cur := Snapshot{"bio_clicks": 12, "update_clicks": 0}
	prev := Snapshot{"bio_clicks": 15}
	metrics := []string{"bio_clicks", "update_clicks", "news_clicks"}

	first := FormatDeltas(cur, prev, metrics)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, FormatDeltas(cur, prev, metrics)); diff != "" {
			t.Fatalf("call %d differs (-first +got):\n%s", i, diff)
		}
	}
	// Inputs are not mutated.
	assert.Equal(t, Snapshot{"bio_clicks": 12, "update_clicks": 0}, cur)
	assert.Equal(t, Snapshot{"bio_clicks": 15}, prev)
}

func TestDelta_JSON(t *testing.T) {
	got := FormatDeltas(Snapshot{"bio": 50}, nil, []string{"bio"})
	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":{"current":50,"previous":null,"diff":null,"direction":null}}`, string(b))

	got = FormatDeltas(Snapshot{"bio": 50}, Snapshot{"bio": 40}, []string{"bio"})
	b, err = json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":{"current":50,"previous":40,"diff":10,"direction":"up"}}`, string(b))
}

package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wrapped struct{ t time.Time }

func (w wrapped) ToDate() time.Time { return w.t }

func TestNormalizeRepresentations(t *testing.T) {
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	inputs := []any{
		want,
		&want,
		wrapped{want.In(time.FixedZone("ART", -3*3600))},
		"2024-03-15T10:30:00Z",
		"2024-03-15T07:30:00-03:00",
		"2024-03-15 10:30:00",
		want.UnixMilli(),
		int(want.UnixMilli()),
		float64(want.UnixMilli()),
		json.Number("1710498600000"),
		map[string]any{"seconds": float64(want.Unix()), "nanoseconds": float64(0)},
	}
	for _, in := range inputs {
		got, err := Normalize(in)
		require.NoError(t, err, "%#v", in)
		assert.True(t, want.Equal(got), "%#v -> %s", in, got)
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestNormalizeDateOnly(t *testing.T) {
	got, err := Normalize("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizeRejects(t *testing.T) {
	for _, in := range []any{nil, "", "yesterday", true, map[string]any{"foo": 1}, (*time.Time)(nil)} {
		_, err := Normalize(in)
		assert.ErrorIs(t, err, ErrUnparseable, "%#v", in)
		assert.True(t, MustNormalize(in).IsZero())
	}
}

func TestEndOfDay(t *testing.T) {
	day := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), EndOfDay(day))

	noon := day.Add(12 * time.Hour)
	assert.Equal(t, noon, EndOfDay(noon))
}

func TestFlexibleJSON(t *testing.T) {
	var payload struct {
		A Flexible  `json:"a"`
		B Flexible  `json:"b"`
		C *Flexible `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a":"2024-05-01","b":1714521600000,"c":null}`), &payload)
	require.NoError(t, err)

	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, want.Equal(payload.A.Time))
	assert.True(t, want.Equal(payload.B.Time))
	assert.Nil(t, payload.C.Ptr())

	out, err := json.Marshal(payload.A)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-05-01T00:00:00Z"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a":"not a date"}`), &payload))
}

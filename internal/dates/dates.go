// Package dates turns the date representations found in stored records and
// client payloads into a single time.Time, in UTC.
package dates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrUnparseable = errors.New("unparseable date")

// Converter is implemented by wrapper values that expose their own
// conversion to a concrete date.
type Converter interface {
	ToDate() time.Time
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	time.DateOnly,
}

// Normalize accepts time values, strings, epoch milliseconds, Converter
// values and {"seconds", "nanoseconds"} timestamp maps.
func Normalize(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, ErrUnparseable
	case time.Time:
		return x.UTC(), nil
	case *time.Time:
		if x == nil {
			return time.Time{}, ErrUnparseable
		}
		return x.UTC(), nil
	case Converter:
		return x.ToDate().UTC(), nil
	case string:
		return parseString(x)
	case int:
		return fromMillis(int64(x)), nil
	case int64:
		return fromMillis(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, ErrUnparseable
		}
		return fromMillis(int64(x)), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return fromMillis(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, ErrUnparseable
		}
		return Normalize(f)
	case map[string]any:
		return fromTimestampMap(x)
	}
	return time.Time{}, fmt.Errorf("%w: %T", ErrUnparseable, v)
}

// MustNormalize returns the zero time for anything Normalize rejects.
func MustNormalize(v any) time.Time {
	t, err := Normalize(v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnparseable
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromMillis(n), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

func fromTimestampMap(m map[string]any) (time.Time, error) {
	secs, ok := number(m["seconds"])
	if !ok {
		secs, ok = number(m["_seconds"])
	}
	if !ok {
		return time.Time{}, ErrUnparseable
	}
	nanos, _ := number(m["nanoseconds"])
	if nanos == 0 {
		nanos, _ = number(m["_nanoseconds"])
	}
	return time.Unix(int64(secs), int64(nanos)).UTC(), nil
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// EndOfDay moves a midnight timestamp to the last nanosecond of that day.
// Other times are returned unchanged.
func EndOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}

// Flexible is a JSON date field that accepts any representation Normalize
// does. It marshals as RFC 3339.
type Flexible struct {
	time.Time
}

func (f *Flexible) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Time = time.Time{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	t, err := Normalize(raw)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func (f Flexible) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Time.UTC().Format(time.RFC3339Nano))
}

// Ptr returns nil for the zero value.
func (f *Flexible) Ptr() *time.Time {
	if f == nil || f.IsZero() {
		return nil
	}
	t := f.Time
	return &t
}

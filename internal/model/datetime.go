package model

import (
	"fmt"
	"strings"
	"time"
)

// Wire layouts accepted from the todo service. The server serializes
// timestamps without a zone offset, so RFC 3339 parsing alone is not enough.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339Nano,
}

// DateTimeWire is the layout used when sending timestamps to the server.
const DateTimeWire = "2006-01-02T15:04:05"

// DateTimeMinute is the minute-precision layout used by the edit buffer.
const DateTimeMinute = "2006-01-02T15:04"

// DateTime wraps time.Time with the zone-less JSON encoding the todo
// service uses for its timestamp fields.
type DateTime struct {
	time.Time
}

// NewDateTime creates a DateTime from a time.Time.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

// MarshalJSON encodes the timestamp in the server's wire layout.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateTimeWire) + `"`), nil
}

// UnmarshalJSON decodes a timestamp from any of the accepted layouts.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}

	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
	}

	return fmt.Errorf("parsing datetime %q: no accepted layout matched", s)
}

// Minute returns the timestamp truncated to minute precision, formatted
// for the edit buffer.
func (d DateTime) Minute() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateTimeMinute)
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// JSONTime accepts the handful of timestamp layouts the HMS backend emits
// (ISO with or without zone, and the dd-MM-yyyy forms shown on receipts).
type JSONTime time.Time

var jsonTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"02-01-2006 15:04:05",
}

// UnmarshalJSON treats null and "" as the zero time.
func (jt *JSONTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*jt = JSONTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("JSONTime.UnmarshalJSON: %w", err)
	}
	if s == "" {
		*jt = JSONTime{}
		return nil
	}
	for _, layout := range jsonTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*jt = JSONTime(t)
			return nil
		}
	}
	return fmt.Errorf("JSONTime.UnmarshalJSON: cannot parse %q", s)
}

// MarshalJSON emits RFC3339, or null for the zero time.
func (jt JSONTime) MarshalJSON() ([]byte, error) {
	t := time.Time(jt)
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

func (jt JSONTime) Time() time.Time { return time.Time(jt) }

func (jt JSONTime) IsZero() bool { return time.Time(jt).IsZero() }

// Display renders the date the way the screens print it (dd-MM-yyyy).
func (jt JSONTime) Display() string {
	if jt.IsZero() {
		return ""
	}
	return time.Time(jt).Format("02-01-2006")
}

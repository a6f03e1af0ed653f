package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// HistoryEntry is one row of GET /history
type HistoryEntry struct {
	ID                int64     `json:"id"`
	Filename          string    `json:"filename"`
	Date              Timestamp `json:"date"`
	ParticleCount     int       `json:"particle_count"`
	MicroplasticTypes []string  `json:"microplastic_types"`
}

// Timestamp accepts the date layouts the analysis backend is known to emit.
// Floating is set for date-times sent without a zone: their wall clock is
// kept as sent and only gets a zone when shown.
type Timestamp struct {
	time.Time
	Floating bool
}

var timestampLayouts = []struct {
	layout   string
	floating bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05.999999999", true},
	{"2006-01-02", false},
}

const floatingLayout = "2006-01-02T15:04:05.999999999"

// ParseTimestamp parses value with the first matching layout. Date-only
// values are midnight UTC.
func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)
	for _, l := range timestampLayouts {
		if t, err := time.Parse(l.layout, value); err == nil {
			return Timestamp{Time: t, Floating: l.floating}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// InLocation returns the instant shown in loc. A floating timestamp keeps
// its wall clock and is placed in loc, as a browser reads a zoneless date-time.
func (t Timestamp) InLocation(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	if !t.Floating {
		return t.Time.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	if t.Floating {
		return json.Marshal(t.Format(floatingLayout))
	}
	return json.Marshal(t.Format(time.RFC3339))
}

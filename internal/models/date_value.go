package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateKind tells whether a DateValue came with a time of day or as a bare calendar date
type DateKind int

const (
	DateKindTimestamp DateKind = iota
	DateKindPlainDate
)

const plainDateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

var (
	timestampLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	plainDateLayouts = []string{
		plainDateLayout,
		"02/01/2006",
	}
)

// DateValue is a date as it arrived from the outside, either a full timestamp
// or a calendar date. It is resolved once when a request or CSV row is parsed;
// storage and the analysis pipeline only see the resulting time.Time.
type DateValue struct {
	Kind  DateKind
	Value time.Time
}

// ParseDateValue accepts RFC3339 timestamps, "YYYY-MM-DD" and "DD/MM/YYYY"
func ParseDateValue(raw string) (DateValue, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DateValue{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}

	for _, layout := range plainDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateValue{Kind: DateKindPlainDate, Value: t.UTC()}, nil
		}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateValue{Kind: DateKindTimestamp, Value: t.UTC()}, nil
		}
	}

	return DateValue{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// Time returns the instant used for storage. Plain dates map to midnight UTC.
func (d DateValue) Time() time.Time {
	if d.Kind == DateKindPlainDate {
		y, m, day := d.Value.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
	return d.Value.UTC()
}

func (d DateValue) IsZero() bool {
	return d.Value.IsZero()
}

func (d DateValue) String() string {
	if d.Kind == DateKindPlainDate {
		return d.Value.Format(plainDateLayout)
	}
	return d.Value.Format(time.RFC3339)
}

func (d DateValue) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *DateValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = DateValue{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: expected a string", ErrInvalidDate)
	}

	parsed, err := ParseDateValue(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		kind     DateKind
		expected time.Time
	}{
		{
			name:     "plain ISO date",
			raw:      "2024-03-15",
			kind:     DateKindPlainDate,
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "day first date",
			raw:      "05/02/2024",
			kind:     DateKindPlainDate,
			expected: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC3339 timestamp with offset",
			raw:      "2024-03-15T10:30:00-06:00",
			kind:     DateKindTimestamp,
			expected: time.Date(2024, 3, 15, 16, 30, 0, 0, time.UTC),
		},
		{
			name:     "timestamp without zone",
			raw:      " 2024-03-15 08:00:00 ",
			kind:     DateKindTimestamp,
			expected: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dv, err := ParseDateValue(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, dv.Kind)
			assert.True(t, tt.expected.Equal(dv.Time()), "got %s", dv.Time())
		})
	}
}

func TestParseDateValue_Invalid(t *testing.T) {
	for _, raw := range []string{"", "ayer", "2024-13-01", "32/01/2024"} {
		_, err := ParseDateValue(raw)
		assert.ErrorIs(t, err, ErrInvalidDate, raw)
	}
}

func TestDateValue_JSON(t *testing.T) {
	var payload struct {
		Date DateValue `json:"date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-31"}`), &payload))
	assert.Equal(t, DateKindPlainDate, payload.Date.Kind)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-31"}`, string(out))

	err = json.Unmarshal([]byte(`{"date":20240131}`), &payload)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

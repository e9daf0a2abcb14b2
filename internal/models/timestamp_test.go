package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-10T10:00":     time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
		"2024-01-10T10:00:30":  time.Date(2024, 1, 10, 10, 0, 30, 0, time.UTC),
		"2024-01-01":           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"2024-01-10T10:00:00Z": time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
		" 2024-01-10 10:00 ":   time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		got, err := ParseTimestamp(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got.Time), raw)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	_, err := ParseTimestamp("next tuesday")
	assert.Error(t, err)
	_, err = ParseTimestamp("")
	assert.Error(t, err)
}

func TestTimestampJSONRoundTrip(t *testing.T) {
	var slot Slot
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"start":"2024-01-10T10:00","slotDuration":15,"maxMembers":2,"signups":[]}`), &slot))

	out, err := json.Marshal(slot)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"start":"2024-01-10T10:00:00Z"`)
}

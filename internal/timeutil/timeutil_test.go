package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDBRoundTrip(t *testing.T) {
	in := "2024-10-18 19:00:00"
	parsed, err := ParseDB(in)
	require.NoError(t, err)
	assert.Equal(t, in, FormatDB(parsed))
	assert.Equal(t, "Australia/Adelaide", parsed.Location().String())
}

func TestFormatDate(t *testing.T) {
	d, err := ParseDB("2024-10-18 19:00:00")
	require.NoError(t, err)
	assert.Equal(t, "Fri 18 Oct 2024", FormatDate(d))
	assert.Equal(t, "19:00", FormatTime(d))
	assert.Equal(t, "Fri 18 Oct 2024 19:00", FormatDateTime(d))
}

func TestFormatTimeRangeSameDay(t *testing.T) {
	start, err := ParseDB("2024-10-18 08:00:00")
	require.NoError(t, err)
	end, err := ParseDB("2024-10-18 09:30:00")
	require.NoError(t, err)

	assert.Equal(t, "08:00 - 09:30", FormatTimeRange(start, end))
}

func TestFormatTimeRangeOvernight(t *testing.T) {
	start, err := ParseDB("2024-10-18 23:00:00")
	require.NoError(t, err)
	end, err := ParseDB("2024-10-19 01:00:00")
	require.NoError(t, err)

	assert.Equal(t, "23:00 - 01:00 +1 day", FormatTimeRange(start, end))
}

func TestIsToday(t *testing.T) {
	assert.True(t, IsToday(Now()))
	assert.False(t, IsToday(Now().Add(-48*time.Hour)))
	assert.False(t, IsToday(Now().Add(48*time.Hour)))
}

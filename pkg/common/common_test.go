package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// The calendar date is taken in the value's own location.
	late := time.Date(2026, 3, 15, 23, 45, 0, 0, loc)
	got := DayOf(late)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseDay(t *testing.T) {
	for _, input := range []string{"2026-03-15", "15/03/2026", "2026-03-15T18:30:00Z"} {
		got, err := ParseDay(input)
		require.NoError(t, err, input)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got, input)
	}

	_, err := ParseDay("not a date")
	assert.Error(t, err)
}

func TestUUIDint64(t *testing.T) {
	a := UUIDint64()
	b := UUIDint64()
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
}

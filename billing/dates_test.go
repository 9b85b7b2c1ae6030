package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfTakesComponentsLiterally(t *testing.T) {
	// A timestamp carrying a negative offset must keep its own Y-M-D
	// components instead of sliding a day when normalized.
	nyc := time.FixedZone("UTC-5", -5*60*60)
	stamp := time.Date(2024, time.March, 1, 0, 0, 0, 0, nyc)

	day := DayOf(stamp)
	assert.Equal(t, Date(2024, time.March, 1), day)
	assert.Equal(t, time.UTC, day.Location())
}

func TestBeforeDay(t *testing.T) {
	yesterday := Date(2024, time.June, 4)
	today := Date(2024, time.June, 5)

	assert.True(t, BeforeDay(yesterday, today))
	assert.False(t, BeforeDay(today, today))
	assert.False(t, BeforeDay(today, yesterday))

	// Time-of-day never tips the comparison.
	lateYesterday := time.Date(2024, time.June, 4, 23, 59, 59, 0, time.UTC)
	assert.True(t, BeforeDay(lateYesterday, today))
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.February, 29), day)

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestMonthStart(t *testing.T) {
	assert.Equal(t, Date(2024, time.March, 1), MonthStart(Date(2024, time.March, 15)))
	assert.True(t, SameMonth(Date(2024, time.March, 1), Date(2024, time.March, 31)))
	assert.False(t, SameMonth(Date(2024, time.March, 31), Date(2024, time.April, 1)))
}

func TestFixedClock(t *testing.T) {
	c := FixedClock{Day: time.Date(2024, time.June, 1, 13, 45, 0, 0, time.UTC)}
	assert.Equal(t, Date(2024, time.June, 1), c.Today())
}

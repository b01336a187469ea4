package workday_test

import (
	"testing"
	"time"

	"crewtrack/internal/shared/workday"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func noHolidays(time.Time) bool { return false }

func TestCount(t *testing.T) {
	t.Run("full monday to friday week", func(t *testing.T) {
		// 2025-06-02 is a Monday
		got := workday.Count(date(2025, 6, 2), date(2025, 6, 6), noHolidays)
		assert.Equal(t, 5, got)
	})

	t.Run("weekend only range counts zero", func(t *testing.T) {
		got := workday.Count(date(2025, 6, 7), date(2025, 6, 8), noHolidays)
		assert.Equal(t, 0, got)
	})

	t.Run("single day", func(t *testing.T) {
		assert.Equal(t, 1, workday.Count(date(2025, 6, 4), date(2025, 6, 4), noHolidays))
	})

	t.Run("inverted range counts zero", func(t *testing.T) {
		got := workday.Count(date(2025, 6, 6), date(2025, 6, 2), noHolidays)
		assert.Equal(t, 0, got)
	})

	t.Run("holiday inside range reduces count by one", func(t *testing.T) {
		holiday := date(2025, 6, 4) // Wednesday
		isHoliday := func(d time.Time) bool { return d.Equal(holiday) }

		got := workday.Count(date(2025, 6, 2), date(2025, 6, 6), isHoliday)
		assert.Equal(t, 4, got)
	})

	t.Run("holiday on weekend does not reduce count", func(t *testing.T) {
		holiday := date(2025, 6, 7) // Saturday
		isHoliday := func(d time.Time) bool { return d.Equal(holiday) }

		got := workday.Count(date(2025, 6, 2), date(2025, 6, 8), isHoliday)
		assert.Equal(t, 5, got)
	})

	t.Run("range spanning weekend", func(t *testing.T) {
		// Thursday through following Tuesday: Thu, Fri, Mon, Tue
		got := workday.Count(date(2025, 6, 5), date(2025, 6, 10), noHolidays)
		assert.Equal(t, 4, got)
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		start := time.Date(2025, 6, 2, 23, 30, 0, 0, time.UTC)
		end := time.Date(2025, 6, 6, 0, 15, 0, 0, time.UTC)
		assert.Equal(t, 5, workday.Count(start, end, noHolidays))
	})

	t.Run("nil holiday predicate", func(t *testing.T) {
		assert.Equal(t, 5, workday.Count(date(2025, 6, 2), date(2025, 6, 6), nil))
	})
}

func TestKey(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	a := time.Date(2025, 12, 24, 23, 0, 0, 0, loc)
	assert.Equal(t, "2025-12-24", workday.Key(a))
}

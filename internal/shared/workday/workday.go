package workday

import "time"

// Count returns the number of working days in the inclusive range
// [start, end]. A working day is a Monday-Friday date for which isHoliday
// reports false. Time-of-day and timezone offsets are ignored; both bounds
// are truncated to their calendar date. An inverted range counts zero.
func Count(start, end time.Time, isHoliday func(time.Time) bool) int {
	start = Truncate(start)
	end = Truncate(end)
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if isHoliday != nil && isHoliday(d) {
			continue
		}
		days++
	}
	return days
}

// Truncate normalizes a timestamp to its calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Key formats a date as its canonical map key. Holiday sets are keyed on
// this so lookups survive timezone differences between stored and queried
// dates.
func Key(t time.Time) string {
	return Truncate(t).Format("2006-01-02")
}

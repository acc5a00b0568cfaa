package service

import (
	"time"
)

// QuarterLabels are the display labels used by the trend endpoints, indexed
// by quarter-1.
var QuarterLabels = [4]string{"JAN - MAR", "APR - JUNE", "JULY - SEPT", "OCT - DEC"}

// QuarterDates returns the inclusive first and last day of a calendar
// quarter. Out-of-range quarters clamp to Q1, which callers rely on when a
// client sends 0.
func QuarterDates(quarter, year int) (time.Time, time.Time) {
	if quarter < 1 || quarter > 4 {
		quarter = 1
	}
	start := time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0).AddDate(0, 0, -1)
	return start, end
}

// QuarterOf maps a month to its calendar quarter.
func QuarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// PreviousQuarter steps one quarter back, rolling the year over Q1.
func PreviousQuarter(quarter, year int) (int, int) {
	if quarter <= 1 {
		return 4, year - 1
	}
	return quarter - 1, year
}

// MonthWindow returns the inclusive start and exclusive end of the month
// containing t.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// PreviousMonth returns the first day of the month before t's month.
func PreviousMonth(t time.Time) time.Time {
	start, _ := MonthWindow(t)
	return start.AddDate(0, -1, 0)
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuarterDates(t *testing.T) {
	t.Run("Q1 runs January through March 31", func(t *testing.T) {
		start, end := QuarterDates(1, 2025)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("Q4 ends December 31", func(t *testing.T) {
		start, end := QuarterDates(4, 2025)
		assert.Equal(t, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("Q2 handles the short month", func(t *testing.T) {
		start, end := QuarterDates(2, 2025)
		assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("out of range clamps to Q1", func(t *testing.T) {
		start, _ := QuarterDates(0, 2025)
		assert.Equal(t, time.January, start.Month())
		start, _ = QuarterDates(9, 2025)
		assert.Equal(t, time.January, start.Month())
	})
}

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, 1, QuarterOf(time.January))
	assert.Equal(t, 1, QuarterOf(time.March))
	assert.Equal(t, 2, QuarterOf(time.April))
	assert.Equal(t, 3, QuarterOf(time.September))
	assert.Equal(t, 4, QuarterOf(time.December))
}

func TestPreviousQuarter(t *testing.T) {
	q, y := PreviousQuarter(1, 2025)
	assert.Equal(t, 4, q)
	assert.Equal(t, 2024, y)

	q, y = PreviousQuarter(3, 2025)
	assert.Equal(t, 2, q)
	assert.Equal(t, 2025, y)
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(time.Date(2025, time.February, 14, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestPreviousMonth(t *testing.T) {
	prev := PreviousMonth(time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), prev)
}

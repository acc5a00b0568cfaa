package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsim/apiserver/internal/repository"
)

func TestMonthlyTrend(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	user := seedLearner(t, db, org, "E1")
	_, attrs := seedModule(t, db, org, "forklift", nil)

	feb := func(day int) time.Time { return time.Date(2025, time.February, day, 0, 0, 0, 0, time.UTC) }
	mar := func(day int) time.Time { return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC) }

	// Previous month: three assigned, one completed.
	seedAssignment(t, db, user, attrs, feb(5), false, nil)
	seedAssignment(t, db, user, attrs, feb(10), true, timePtr(feb(20)))
	seedAssignment(t, db, user, attrs, feb(15), true, timePtr(mar(5)))
	// Current month: two assigned, one of them completed.
	seedAssignment(t, db, user, attrs, mar(2), true, timePtr(mar(10)))
	seedAssignment(t, db, user, attrs, mar(3), false, nil)

	svc := NewTrendService(repository.NewModuleActivityRepository(db))

	t.Run("formula over the carried backlog", func(t *testing.T) {
		// completed(cur)=2, pending = 2 assigned + 3 carried - 1 done = 4.
		trend, err := svc.MonthlyTrend(org.ID, "forklift", mar(15))
		require.NoError(t, err)
		assert.Equal(t, 50.0, trend)
	})

	t.Run("zero denominator yields zero", func(t *testing.T) {
		trend, err := svc.MonthlyTrend(org.ID, "forklift", time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 0.0, trend)
	})

	t.Run("unknown module sees no activity", func(t *testing.T) {
		trend, err := svc.MonthlyTrend(org.ID, "crane", mar(15))
		require.NoError(t, err)
		assert.Equal(t, 0.0, trend)
	})
}

func TestQuarterlyTrends(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	user := seedLearner(t, db, org, "E1")
	_, attrs := seedModule(t, db, org, "forklift", nil)

	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	seedAssignment(t, db, user, attrs, jan, true, timePtr(jan.AddDate(0, 0, 5)))

	svc := NewTrendService(repository.NewModuleActivityRepository(db))

	trends, err := svc.QuarterlyTrends(org.ID, "forklift", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Only the quarters up to the reference appear.
	assert.Len(t, trends, 2)
	assert.Contains(t, trends, "JAN - MAR")
	assert.Contains(t, trends, "APR - JUNE")
	assert.NotContains(t, trends, "JULY - SEPT")

	// Q1: 1 assigned, 1 completed, previous window is Q1 itself, so the
	// carried backlog cancels out: 1 / (1 + 1 - 1) = 100%.
	assert.Equal(t, 100.0, trends["JAN - MAR"])
	assert.Equal(t, 0.0, trends["APR - JUNE"])
}

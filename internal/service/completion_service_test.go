package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsim/apiserver/internal/repository"
)

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, Rate(0, 0), "zero total never divides")
	assert.Equal(t, 50.0, Rate(4, 2))
	assert.Equal(t, 33.33, Rate(3, 1))
}

func TestCompletionCounts(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	user := seedLearner(t, db, org, "E1")
	_, attrs := seedModule(t, db, org, "forklift", nil)

	assigned := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	seedAssignment(t, db, user, attrs, assigned, true, timePtr(time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)))
	seedAssignment(t, db, user, attrs, assigned, true, timePtr(time.Date(2024, time.November, 10, 0, 0, 0, 0, time.UTC)))
	seedAssignment(t, db, user, attrs, assigned, false, nil)

	svc := NewCompletionService(
		repository.NewModuleActivityRepository(db),
		repository.NewModuleRepository(db),
		repository.NewOrganizationRepository(db),
	)

	total, completed, err := svc.CompletionCounts(org.ID, "forklift", time.March, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total, "total spans all time")
	assert.Equal(t, int64(1), completed, "completions count within the requested year only")
}

func TestCompletionReport(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	require.NoError(t, db.Model(org).Update("created_at",
		time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)).Error)
	user := seedLearner(t, db, org, "E1")
	_, attrs := seedModule(t, db, org, "forklift", nil)

	seedAssignment(t, db, user, attrs,
		time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		true, timePtr(time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)))

	svc := &completionService{
		moduleActivityRepo: repository.NewModuleActivityRepository(db),
		moduleRepo:         repository.NewModuleRepository(db),
		orgRepo:            repository.NewOrganizationRepository(db),
		now:                func() time.Time { return time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC) },
	}

	report, err := svc.Report(org.ID)
	require.NoError(t, err)

	assert.Equal(t, 100.0, report.ModuleWiseRate["forklift"])
	// April was already 100%, so May carries no delta.
	assert.Equal(t, 0.0, report.ModuleWiseComparison["forklift"])
	assert.Equal(t, 100.0, report.OverallRate)

	series := report.MonthlyCounts["forklift"]
	require.NotNil(t, series)
	assert.Equal(t, 0.0, series["March"], "before the completion")
	assert.Equal(t, 100.0, series["April"])
	assert.Equal(t, 100.0, series["May"])
	assert.NotContains(t, series, "February", "series starts at the organization's creation month")
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
)

func TestSecondsToHMS(t *testing.T) {
	assert.Equal(t, "00:00:00", SecondsToHMS(0))
	assert.Equal(t, "00:01:30", SecondsToHMS(90))
	assert.Equal(t, "01:01:01", SecondsToHMS(3661))
}

func seedUsage(t *testing.T, db *gorm.DB, user *model.User, moduleID uint, start time.Time, duration int64) {
	t.Helper()
	require.NoError(t, db.Create(&model.UserActivity{
		UserID:    user.ID,
		ModuleID:  moduleID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(duration) * time.Second),
		Duration:  duration,
		LogEvent:  "module_activity",
	}).Error)
}

func TestModuleUsage(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	user := seedLearner(t, db, org, "E1")
	module, _ := seedModule(t, db, org, "forklift", nil)

	now := time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC)
	seedUsage(t, db, user, module.ID, time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC), 100)
	seedUsage(t, db, user, module.ID, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC), 50)
	seedUsage(t, db, user, module.ID, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), 25)

	svc := &usageService{
		userActivityRepo: repository.NewUserActivityRepository(db),
		orgRepo:          repository.NewOrganizationRepository(db),
		now:              func() time.Time { return now },
	}

	usage, err := svc.ModuleUsage(org.ID)
	require.NoError(t, err)

	require.Len(t, usage["all"], 1)
	assert.Equal(t, int64(175), usage["all"][0].Duration)
	assert.Equal(t, "00:02:55", usage["all"][0].Display)
	assert.Equal(t, "forklift", usage["all"][0].ModuleName)

	require.Len(t, usage["1m"], 1)
	assert.Equal(t, int64(100), usage["1m"][0].Duration)

	require.Len(t, usage["6m"], 1)
	assert.Equal(t, int64(150), usage["6m"][0].Duration)

	require.Len(t, usage["1y"], 1)
	assert.Equal(t, int64(150), usage["1y"][0].Duration)
}

func TestOrganizationUsage(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	require.NoError(t, db.Model(org).Update("created_at",
		time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)).Error)
	user := seedLearner(t, db, org, "E1")
	module, _ := seedModule(t, db, org, "forklift", nil)

	now := time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC)
	seedUsage(t, db, user, module.ID, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), 100)
	// January predates the seeded months but still lands in its quarter.
	seedUsage(t, db, user, module.ID, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 40)
	seedUsage(t, db, user, module.ID, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 7)

	svc := &usageService{
		userActivityRepo: repository.NewUserActivityRepository(db),
		orgRepo:          repository.NewOrganizationRepository(db),
		now:              func() time.Time { return now },
	}

	usage, err := svc.OrganizationUsage(org.ID)
	require.NoError(t, err)

	// Months run from the organization's creation month; quiet ones stay zero.
	assert.Len(t, usage.Monthly, 4)
	assert.Equal(t, int64(0), usage.Monthly["February"])
	assert.Equal(t, int64(0), usage.Monthly["April"])
	assert.Equal(t, int64(100), usage.Monthly["May"])
	assert.NotContains(t, usage.Monthly, "January")

	assert.Len(t, usage.Quarterly, 2)
	assert.Equal(t, int64(40), usage.Quarterly["JAN - MAR"])
	assert.Equal(t, int64(100), usage.Quarterly["APR - JUNE"])

	assert.Equal(t, int64(140), usage.Yearly[2025])
	assert.Equal(t, int64(7), usage.Yearly[2024])
}

package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
)

func newReportService(db *gorm.DB, now time.Time) *reportService {
	return &reportService{
		attemptRepo:        repository.NewAttemptRepository(db),
		moduleActivityRepo: repository.NewModuleActivityRepository(db),
		levelActivityRepo:  repository.NewLevelActivityRepository(db),
		moduleRepo:         repository.NewModuleRepository(db),
		graphs:             NewGraphService(DefaultScoringConfig()),
		now:                func() time.Time { return now },
	}
}

func seedLevelActivity(t *testing.T, db *gorm.DB, module *model.Module, activity *model.ModuleActivity, complete bool) *model.LevelActivity {
	t.Helper()
	category := &model.Category{Name: "Assessment", Order: 1}
	require.NoError(t, db.Create(category).Error)
	level := &model.Level{ModuleID: module.ID, Name: "Level 1", Level: 1, CategoryID: category.ID}
	require.NoError(t, db.Create(level).Error)
	la := &model.LevelActivity{ModuleActivityID: activity.ID, LevelID: level.ID, Complete: complete}
	require.NoError(t, db.Create(la).Error)
	return la
}

func seedAttempt(t *testing.T, db *gorm.DB, la *model.LevelActivity, number uint, start time.Time, duration int64, payload map[string]any) *model.Attempt {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	a := &model.Attempt{
		LevelActivityID: la.ID,
		AttemptNumber:   number,
		Data:            datatypes.JSON(raw),
		Duration:        duration,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(duration) * time.Second),
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC)
	svc := &reportService{now: func() time.Time { return now }}

	t.Run("named windows", func(t *testing.T) {
		from, to, err := svc.resolveWindow(dto.WindowLast7Days, "", "")
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, -7), from)
		assert.Equal(t, now, to)

		from, to, err = svc.resolveWindow(dto.WindowThisMonth, "", "")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), to)

		from, to, err = svc.resolveWindow(dto.WindowLastMonth, "", "")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), to)

		from, _, err = svc.resolveWindow(dto.WindowThisYear, "", "")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), from)
	})

	t.Run("custom range is end-inclusive", func(t *testing.T) {
		from, to, err := svc.resolveWindow(dto.WindowCustom, "2025-01-01", "2025-01-31")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("bad custom dates", func(t *testing.T) {
		_, _, err := svc.resolveWindow(dto.WindowCustom, "31/01/2025", "2025-01-31")
		assert.Error(t, err)
	})

	t.Run("unknown window", func(t *testing.T) {
		_, _, err := svc.resolveWindow("fortnight", "", "")
		assert.Error(t, err)
	})
}

func TestAttemptWiseReport(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	user := seedLearner(t, db, org, "E1")
	module, attrs := seedModule(t, db, org, "forklift", nil)
	activity := seedAssignment(t, db, user, attrs, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), false, nil)
	la := seedLevelActivity(t, db, module, activity, true)

	mistakes := func(rows ...map[string]any) map[string]any {
		list := make([]any, len(rows))
		for i, r := range rows {
			list[i] = r
		}
		return map[string]any{"gameData": map[string]any{"mistakes": list}}
	}

	seedAttempt(t, db, la, 1, time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC), 60, mistakes(
		map[string]any{"name": "Stacking Error", "count": 2},
		map[string]any{"name": "Speeding", "count": 1},
	))
	seedAttempt(t, db, la, 2, time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC), 30, mistakes(
		map[string]any{"name": "stacking error", "count": 3},
	))
	// Outside this_month, must not be counted.
	seedAttempt(t, db, la, 3, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), 999, mistakes())

	svc := newReportService(db, time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC))

	report, err := svc.AttemptWiseReport(dto.AttemptReportRequest{UserID: user.ID, Window: dto.WindowThisMonth})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempts)
	assert.Equal(t, int64(90), report.TimeSpent)
	assert.Equal(t, "00:01:30", report.TimeSpentHMS)
	assert.Equal(t, 1, report.CompletedLevels)

	// Mistake names merge case-insensitively, keeping the first spelling.
	require.Len(t, report.Mistakes, 2)
	assert.Equal(t, "Stacking Error", report.Mistakes[0].Name)
	assert.Equal(t, 5.0, report.Mistakes[0].Count)
	assert.Equal(t, []string{"forklift"}, report.Mistakes[0].ModuleNames)
	assert.Equal(t, 6.0, report.MistakesCount)
}

func TestLatestAttempts(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	user := seedLearner(t, db, org, "E1")
	module, attrs := seedModule(t, db, org, "forklift", nil)
	activity := seedAssignment(t, db, user, attrs, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), false, nil)
	la := seedLevelActivity(t, db, module, activity, true)

	seedAttempt(t, db, la, 1, time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC), 60,
		map[string]any{"score": 42.5})

	svc := newReportService(db, time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC))

	latest, err := svc.LatestAttempts(org.ID, 0)
	require.NoError(t, err)
	require.Len(t, latest, 1)

	assert.Equal(t, "Test E1", latest[0].UserFullName)
	assert.Equal(t, "forklift", latest[0].ModuleName)
	assert.Equal(t, "Level 1", latest[0].LevelName)
	assert.Equal(t, uint(1), latest[0].AttemptNumber)
	require.NotNil(t, latest[0].Score)
	assert.Equal(t, 42.5, *latest[0].Score)
}

func TestAssignedUsers(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	fast := seedLearner(t, db, org, "E1")
	slow := seedLearner(t, db, org, "E2")
	module, attrs := seedModule(t, db, org, "forklift", nil)

	assigned := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	fastActivity := seedAssignment(t, db, fast, attrs, assigned, true, timePtr(assigned.AddDate(0, 0, 10)))
	slowActivity := seedAssignment(t, db, slow, attrs, assigned, false, nil)

	la := seedLevelActivity(t, db, module, fastActivity, true)
	require.NoError(t, db.Create(&model.LevelActivity{
		ModuleActivityID: slowActivity.ID, LevelID: la.LevelID, Complete: false,
	}).Error)

	svc := newReportService(db, time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC))

	rows, err := svc.AssignedUsers(org.ID, attrs.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Most progressed first.
	assert.Equal(t, fast.ID, rows[0].UserID)
	assert.Equal(t, 100.0, rows[0].Progress)
	assert.True(t, rows[0].Complete)
	assert.Equal(t, slow.ID, rows[1].UserID)
	assert.Equal(t, 0.0, rows[1].Progress)

	t.Run("foreign organization is rejected", func(t *testing.T) {
		other := seedOrg(t, db, "other")
		_, err := svc.AssignedUsers(other.ID, attrs.ID)
		assert.Error(t, err)
	})
}

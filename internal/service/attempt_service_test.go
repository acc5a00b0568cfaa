package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
)

func newAttemptService(db *gorm.DB) AttemptService {
	return NewAttemptService(
		repository.NewUserRepository(db),
		repository.NewModuleRepository(db),
		repository.NewModuleActivityRepository(db),
		repository.NewLevelActivityRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewUserActivityRepository(db),
		DefaultScoringConfig(),
	)
}

func ingestPayload(orgID uint, userID, moduleName, level, category string) map[string]any {
	return map[string]any{
		"userId":    userID,
		"orgId":     float64(orgID),
		"score":     10.0,
		"duration":  30.0,
		"startTime": 1700000000.0,
		"endTime":   1700000030.0,
		"module": map[string]any{
			"name":     moduleName,
			"level":    level,
			"category": category,
		},
		"gameData": map[string]any{},
	}
}

func TestIngest(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	user := seedLearner(t, db, org, "E1")
	_, attrs := seedModule(t, db, org, "forklift", floatPtr(50))
	seedAssignment(t, db, user, attrs, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), false, nil)

	svc := newAttemptService(db)

	require.NoError(t, svc.Ingest(ingestPayload(org.ID, "E1", "forklift", "level 1", "assessment")))

	t.Run("creates the catalog lazily", func(t *testing.T) {
		var category model.Category
		require.NoError(t, db.Where("name = ?", "Assessment").First(&category).Error)

		var level model.Level
		require.NoError(t, db.Where("name = ?", "Level 1").First(&level).Error)
		assert.Equal(t, category.ID, level.CategoryID)
	})

	t.Run("replaces the client score with the server grade", func(t *testing.T) {
		var attempt model.Attempt
		require.NoError(t, db.First(&attempt).Error)
		assert.Equal(t, uint(1), attempt.AttemptNumber)
		assert.Equal(t, int64(30), attempt.Duration)

		var stored map[string]any
		require.NoError(t, json.Unmarshal(attempt.Data, &stored))
		// Empty telemetry still earns the full check table: 17 of 50.
		assert.Equal(t, 34.0, stored["score"])
	})

	t.Run("forklift levels always complete", func(t *testing.T) {
		var la model.LevelActivity
		require.NoError(t, db.First(&la).Error)
		assert.True(t, la.Complete)
	})

	t.Run("module completes once every assessment level is", func(t *testing.T) {
		var ma model.ModuleActivity
		require.NoError(t, db.First(&ma).Error)
		assert.True(t, ma.Complete)
		require.NotNil(t, ma.CompleteDate)
	})

	t.Run("logs a usage event", func(t *testing.T) {
		var ua model.UserActivity
		require.NoError(t, db.First(&ua).Error)
		assert.Equal(t, "module_activity", ua.LogEvent)
		assert.Equal(t, int64(30), ua.Duration)
		assert.Equal(t, user.ID, ua.UserID)
	})

	t.Run("second run increments the attempt number", func(t *testing.T) {
		require.NoError(t, svc.Ingest(ingestPayload(org.ID, "E1", "forklift", "level 1", "assessment")))
		var attempts []model.Attempt
		require.NoError(t, db.Order("attempt_number ASC").Find(&attempts).Error)
		require.Len(t, attempts, 2)
		assert.Equal(t, uint(2), attempts[1].AttemptNumber)
	})
}

func TestIngestRejections(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	user := seedLearner(t, db, org, "E1")
	_, attrs := seedModule(t, db, org, "forklift", nil)
	seedAssignment(t, db, user, attrs, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), false, nil)

	svc := newAttemptService(db)

	t.Run("missing identity", func(t *testing.T) {
		err := svc.Ingest(map[string]any{"module": map[string]any{"name": "forklift", "level": "l1", "category": "x"}})
		assert.Error(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.Ingest(ingestPayload(org.ID, "ghost", "forklift", "level 1", "training"))
		assert.Error(t, err)
	})

	t.Run("unassigned module", func(t *testing.T) {
		seedModule(t, db, org, "crane", nil)
		err := svc.Ingest(ingestPayload(org.ID, "E1", "crane", "level 1", "training"))
		assert.Error(t, err)
	})

	t.Run("missing module reference", func(t *testing.T) {
		payload := ingestPayload(org.ID, "E1", "forklift", "", "training")
		err := svc.Ingest(payload)
		assert.Error(t, err)
	})
}

package repository

import (
	"errors"
	"time"

	"github.com/skillsim/apiserver/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(a *model.Attempt) error
	// NextAttemptNumber returns 1 + the highest attempt number recorded for
	// the level activity, starting at 1.
	NextAttemptNumber(levelActivityID uint) (uint, error)
	ListByLevelActivity(levelActivityID uint) ([]model.Attempt, error)
	// ListForUserBetween returns a user's attempts whose start time falls in
	// [from, to), preloading level and category for report grouping.
	ListForUserBetween(userID uint, from, to time.Time) ([]model.Attempt, error)
	// LatestByOrg returns the organization's most recent attempts.
	LatestByOrg(orgID uint, limit int) ([]model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(a *model.Attempt) error {
	return r.db.Create(a).Error
}

func (r *attemptRepository) NextAttemptNumber(levelActivityID uint) (uint, error) {
	var last model.Attempt
	err := r.db.
		Where("level_activity_id = ?", levelActivityID).
		Order("attempt_number DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.AttemptNumber + 1, nil
}

func (r *attemptRepository) ListByLevelActivity(levelActivityID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("level_activity_id = ?", levelActivityID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) ListForUserBetween(userID uint, from, to time.Time) ([]model.Attempt, error) {
	var attempts []model.Attempt
	q := r.db.
		Preload("LevelActivity").
		Preload("LevelActivity.Level").
		Preload("LevelActivity.Level.Category").
		Preload("LevelActivity.ModuleActivity").
		Preload("LevelActivity.ModuleActivity.Module").
		Preload("LevelActivity.ModuleActivity.Module.Module").
		Joins("JOIN level_activities ON level_activities.id = attempts.level_activity_id").
		Joins("JOIN module_activities ON module_activities.id = level_activities.module_activity_id").
		Where("module_activities.user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("attempts.start_time >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("attempts.start_time < ?", to)
	}
	err := q.Order("attempts.start_time ASC").Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) LatestByOrg(orgID uint, limit int) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Preload("LevelActivity").
		Preload("LevelActivity.Level").
		Preload("LevelActivity.ModuleActivity").
		Preload("LevelActivity.ModuleActivity.User").
		Preload("LevelActivity.ModuleActivity.Module").
		Preload("LevelActivity.ModuleActivity.Module.Module").
		Joins("JOIN level_activities ON level_activities.id = attempts.level_activity_id").
		Joins("JOIN module_activities ON module_activities.id = level_activities.module_activity_id").
		Joins("JOIN users ON users.id = module_activities.user_id").
		Where("users.organization_id = ? AND users.deleted = ?", orgID, false).
		Order("attempts.created_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

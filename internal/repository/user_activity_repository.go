package repository

import (
	"time"

	"github.com/skillsim/apiserver/internal/model"
	"gorm.io/gorm"
)

// ModuleUsage is a per-module duration rollup row.
type ModuleUsage struct {
	ModuleID   uint   `json:"module_id"`
	ModuleName string `json:"module_name"`
	Duration   int64  `json:"duration"`
}

type UserActivityRepository interface {
	Create(ua *model.UserActivity) error
	// SumDurationByModule rolls up logged seconds per module for an
	// organization. Zero times disable the corresponding bound.
	SumDurationByModule(orgID uint, from, to time.Time) ([]ModuleUsage, error)
	// ListByOrgBetween returns raw events for period folds done in Go.
	ListByOrgBetween(orgID uint, from, to time.Time) ([]model.UserActivity, error)
	SumDurationForUser(userID uint, from, to time.Time) (int64, error)
}

type userActivityRepository struct {
	db *gorm.DB
}

func NewUserActivityRepository(db *gorm.DB) UserActivityRepository {
	return &userActivityRepository{db: db}
}

func (r *userActivityRepository) Create(ua *model.UserActivity) error {
	return r.db.Create(ua).Error
}

func (r *userActivityRepository) orgScope(orgID uint, from, to time.Time) *gorm.DB {
	q := r.db.Model(&model.UserActivity{}).
		Joins("JOIN users ON users.id = user_activities.user_id").
		Where("users.organization_id = ? AND users.deleted = ?", orgID, false)
	if !from.IsZero() {
		q = q.Where("user_activities.start_time >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("user_activities.start_time < ?", to)
	}
	return q
}

func (r *userActivityRepository) SumDurationByModule(orgID uint, from, to time.Time) ([]ModuleUsage, error) {
	var rows []ModuleUsage
	err := r.orgScope(orgID, from, to).
		Joins("JOIN modules ON modules.id = user_activities.module_id").
		Select("user_activities.module_id AS module_id, modules.name AS module_name, COALESCE(SUM(user_activities.duration), 0) AS duration").
		Group("user_activities.module_id, modules.name").
		Scan(&rows).Error
	return rows, err
}

func (r *userActivityRepository) ListByOrgBetween(orgID uint, from, to time.Time) ([]model.UserActivity, error) {
	var list []model.UserActivity
	err := r.orgScope(orgID, from, to).
		Order("user_activities.start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *userActivityRepository) SumDurationForUser(userID uint, from, to time.Time) (int64, error) {
	q := r.db.Model(&model.UserActivity{}).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("start_time >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("start_time < ?", to)
	}
	var total int64
	err := q.Select("COALESCE(SUM(duration), 0)").Scan(&total).Error
	return total, err
}

package repository

import (
	"time"

	"github.com/skillsim/apiserver/internal/model"
	"gorm.io/gorm"
)

type ModuleActivityRepository interface {
	Create(ma *model.ModuleActivity) error
	Save(ma *model.ModuleActivity) error
	// FindActive returns the live assignment of a module configuration to a
	// user. At most one exists at a time.
	FindActive(userID, moduleAttrID uint) (*model.ModuleActivity, error)
	ListActiveByUser(userID uint) ([]model.ModuleActivity, error)
	ListByModuleAttr(moduleAttrID uint) ([]model.ModuleActivity, error)
	Deactivate(userID, moduleAttrID uint) error

	// Counts below feed the completion and trend analytics. "Assigned"
	// counts learner assignments by assigned_on, "completed" by
	// complete_date. An empty moduleName matches every module; zero times
	// disable the corresponding bound.
	CountAssigned(orgID uint, moduleName string, from, to time.Time) (int64, error)
	CountCompleted(orgID uint, moduleName string, from, to time.Time) (int64, error)
}

type moduleActivityRepository struct {
	db *gorm.DB
}

func NewModuleActivityRepository(db *gorm.DB) ModuleActivityRepository {
	return &moduleActivityRepository{db: db}
}

func (r *moduleActivityRepository) Create(ma *model.ModuleActivity) error {
	return r.db.Create(ma).Error
}

func (r *moduleActivityRepository) Save(ma *model.ModuleActivity) error {
	return r.db.Save(ma).Error
}

func (r *moduleActivityRepository) FindActive(userID, moduleAttrID uint) (*model.ModuleActivity, error) {
	var ma model.ModuleActivity
	err := r.db.Preload("Module").Preload("Module.Module").
		Where("user_id = ? AND module_id = ? AND active = ?", userID, moduleAttrID, true).
		First(&ma).Error
	return &ma, err
}

func (r *moduleActivityRepository) ListActiveByUser(userID uint) ([]model.ModuleActivity, error) {
	var list []model.ModuleActivity
	err := r.db.Preload("Module").Preload("Module.Module").
		Where("user_id = ? AND active = ?", userID, true).
		Order("assigned_on DESC").
		Find(&list).Error
	return list, err
}

func (r *moduleActivityRepository) ListByModuleAttr(moduleAttrID uint) ([]model.ModuleActivity, error) {
	var list []model.ModuleActivity
	err := r.db.Preload("User").
		Where("module_id = ? AND active = ?", moduleAttrID, true).
		Find(&list).Error
	return list, err
}

func (r *moduleActivityRepository) Deactivate(userID, moduleAttrID uint) error {
	return r.db.Model(&model.ModuleActivity{}).
		Where("user_id = ? AND module_id = ? AND active = ?", userID, moduleAttrID, true).
		Update("active", false).Error
}

func (r *moduleActivityRepository) learnerScope(orgID uint, moduleName string) *gorm.DB {
	q := r.db.Model(&model.ModuleActivity{}).
		Joins("JOIN users ON users.id = module_activities.user_id").
		Where("users.organization_id = ? AND users.deleted = ? AND users.active = ?",
			orgID, false, true).
		Where("module_activities.active = ?", true)
	if moduleName != "" {
		q = q.Joins("JOIN module_attributes ON module_attributes.id = module_activities.module_id").
			Joins("JOIN modules ON modules.id = module_attributes.module_id").
			Where("LOWER(modules.name) = LOWER(?)", moduleName)
	}
	return q
}

func (r *moduleActivityRepository) CountAssigned(orgID uint, moduleName string, from, to time.Time) (int64, error) {
	q := r.learnerScope(orgID, moduleName)
	if !from.IsZero() {
		q = q.Where("module_activities.assigned_on >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("module_activities.assigned_on < ?", to)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *moduleActivityRepository) CountCompleted(orgID uint, moduleName string, from, to time.Time) (int64, error) {
	q := r.learnerScope(orgID, moduleName).Where("module_activities.complete = ?", true)
	if !from.IsZero() {
		q = q.Where("module_activities.complete_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("module_activities.complete_date < ?", to)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

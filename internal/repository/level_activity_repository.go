package repository

import (
	"errors"

	"github.com/skillsim/apiserver/internal/model"
	"gorm.io/gorm"
)

type LevelActivityRepository interface {
	GetOrCreate(moduleActivityID, levelID uint) (*model.LevelActivity, error)
	Save(la *model.LevelActivity) error
	FindByID(id uint) (*model.LevelActivity, error)
	ListByModuleActivity(moduleActivityID uint) ([]model.LevelActivity, error)
	CountAllComplete(moduleActivityID uint) (int64, error)
	// CountComplete counts completed level activities of one assignment,
	// restricted to levels inside or outside the named category.
	CountComplete(moduleActivityID uint, category string, inCategory bool) (int64, error)
}

type levelActivityRepository struct {
	db *gorm.DB
}

func NewLevelActivityRepository(db *gorm.DB) LevelActivityRepository {
	return &levelActivityRepository{db: db}
}

func (r *levelActivityRepository) GetOrCreate(moduleActivityID, levelID uint) (*model.LevelActivity, error) {
	var la model.LevelActivity
	err := r.db.
		Where("module_activity_id = ? AND level_id = ?", moduleActivityID, levelID).
		First(&la).Error
	if err == nil {
		return &la, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	la = model.LevelActivity{
		ModuleActivityID: moduleActivityID,
		LevelID:          levelID,
		Complete:         true,
	}
	if err := r.db.Create(&la).Error; err != nil {
		return nil, err
	}
	return &la, nil
}

func (r *levelActivityRepository) Save(la *model.LevelActivity) error {
	return r.db.Save(la).Error
}

func (r *levelActivityRepository) FindByID(id uint) (*model.LevelActivity, error) {
	var la model.LevelActivity
	err := r.db.
		Preload("Level").
		Preload("Level.Category").
		Preload("ModuleActivity").
		Preload("ModuleActivity.User").
		Preload("ModuleActivity.Module").
		Preload("ModuleActivity.Module.Module").
		First(&la, id).Error
	return &la, err
}

func (r *levelActivityRepository) CountAllComplete(moduleActivityID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.LevelActivity{}).
		Where("module_activity_id = ? AND complete = ?", moduleActivityID, true).
		Count(&count).Error
	return count, err
}

func (r *levelActivityRepository) ListByModuleActivity(moduleActivityID uint) ([]model.LevelActivity, error) {
	var list []model.LevelActivity
	err := r.db.Preload("Level").Preload("Level.Category").
		Where("module_activity_id = ?", moduleActivityID).
		Find(&list).Error
	return list, err
}

func (r *levelActivityRepository) CountComplete(moduleActivityID uint, category string, inCategory bool) (int64, error) {
	q := r.db.Model(&model.LevelActivity{}).
		Joins("JOIN levels ON levels.id = level_activities.level_id").
		Joins("JOIN categories ON categories.id = levels.category_id").
		Where("level_activities.module_activity_id = ? AND level_activities.complete = ?", moduleActivityID, true)
	if inCategory {
		q = q.Where("LOWER(categories.name) = LOWER(?)", category)
	} else {
		q = q.Where("LOWER(categories.name) <> LOWER(?)", category)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

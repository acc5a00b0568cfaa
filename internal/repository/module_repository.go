package repository

import (
	"github.com/skillsim/apiserver/internal/model"
	"gorm.io/gorm"
)

type ModuleRepository interface {
	FindModuleByName(name string) (*model.Module, error)
	FindAttributes(moduleName string, orgID uint) (*model.ModuleAttributes, error)
	FindAttributesByID(id uint) (*model.ModuleAttributes, error)
	ListAttributesByOrg(orgID uint) ([]model.ModuleAttributes, error)

	FindCategoryByName(name string) (*model.Category, error)
	LastCategory() (*model.Category, error)
	CreateCategory(c *model.Category) error

	FindLevelByName(moduleID uint, name string) (*model.Level, error)
	LastLevel(moduleID uint) (*model.Level, error)
	CreateLevel(l *model.Level) error
	SaveLevel(l *model.Level) error
	ListLevels(moduleID uint) ([]model.Level, error)
	// CountLevels counts a module's levels, either inside or outside the
	// named category.
	CountLevels(moduleID uint, category string, inCategory bool) (int64, error)
}

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) FindModuleByName(name string) (*model.Module, error) {
	var m model.Module
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&m).Error
	return &m, err
}

func (r *moduleRepository) FindAttributes(moduleName string, orgID uint) (*model.ModuleAttributes, error) {
	var attrs model.ModuleAttributes
	err := r.db.Preload("Module").
		Joins("JOIN modules ON modules.id = module_attributes.module_id").
		Where("LOWER(modules.name) = LOWER(?) AND module_attributes.organization_id = ?", moduleName, orgID).
		First(&attrs).Error
	return &attrs, err
}

func (r *moduleRepository) FindAttributesByID(id uint) (*model.ModuleAttributes, error) {
	var attrs model.ModuleAttributes
	err := r.db.Preload("Module").First(&attrs, id).Error
	return &attrs, err
}

func (r *moduleRepository) ListAttributesByOrg(orgID uint) ([]model.ModuleAttributes, error) {
	var attrs []model.ModuleAttributes
	err := r.db.Preload("Module").
		Where("organization_id = ?", orgID).
		Find(&attrs).Error
	return attrs, err
}

func (r *moduleRepository) FindCategoryByName(name string) (*model.Category, error) {
	var c model.Category
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&c).Error
	return &c, err
}

func (r *moduleRepository) LastCategory() (*model.Category, error) {
	var c model.Category
	err := r.db.Order("ordinal DESC").First(&c).Error
	return &c, err
}

func (r *moduleRepository) CreateCategory(c *model.Category) error {
	return r.db.Create(c).Error
}

func (r *moduleRepository) FindLevelByName(moduleID uint, name string) (*model.Level, error) {
	var l model.Level
	err := r.db.Preload("Category").
		Where("module_id = ? AND LOWER(name) = LOWER(?)", moduleID, name).
		First(&l).Error
	return &l, err
}

func (r *moduleRepository) LastLevel(moduleID uint) (*model.Level, error) {
	var l model.Level
	err := r.db.Where("module_id = ?", moduleID).Order("level DESC").First(&l).Error
	return &l, err
}

func (r *moduleRepository) CreateLevel(l *model.Level) error {
	return r.db.Create(l).Error
}

func (r *moduleRepository) SaveLevel(l *model.Level) error {
	return r.db.Save(l).Error
}

func (r *moduleRepository) ListLevels(moduleID uint) ([]model.Level, error) {
	var levels []model.Level
	err := r.db.Preload("Category").
		Where("module_id = ?", moduleID).
		Order("level ASC").
		Find(&levels).Error
	return levels, err
}

func (r *moduleRepository) CountLevels(moduleID uint, category string, inCategory bool) (int64, error) {
	var count int64
	q := r.db.Model(&model.Level{}).
		Joins("JOIN categories ON categories.id = levels.category_id").
		Where("levels.module_id = ?", moduleID)
	if inCategory {
		q = q.Where("LOWER(categories.name) = LOWER(?)", category)
	} else {
		q = q.Where("LOWER(categories.name) <> LOWER(?)", category)
	}
	err := q.Count(&count).Error
	return count, err
}

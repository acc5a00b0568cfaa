package repository

import (
	"github.com/skillsim/apiserver/internal/model"
	"gorm.io/gorm"
)

type OrganizationRepository interface {
	Create(org *model.Organization) error
	FindByID(id uint) (*model.Organization, error)
	FindBySlug(slug string) (*model.Organization, error)
	FindAll() ([]model.Organization, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(org *model.Organization) error {
	return r.db.Create(org).Error
}

func (r *organizationRepository) FindByID(id uint) (*model.Organization, error) {
	var org model.Organization
	err := r.db.First(&org, id).Error
	return &org, err
}

func (r *organizationRepository) FindBySlug(slug string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.Where("slug = ?", slug).First(&org).Error
	return &org, err
}

func (r *organizationRepository) FindAll() ([]model.Organization, error) {
	var orgs []model.Organization
	err := r.db.Order("name ASC").Find(&orgs).Error
	return orgs, err
}

package repository

import (
	"github.com/skillsim/apiserver/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	Save(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	// FindLiveByOrgAndUserID looks up the active (non-deleted) user carrying
	// the organization-scoped identifier.
	FindLiveByOrgAndUserID(orgID uint, userID string) (*model.User, error)
	// FindDeletedByOrgAndUserID finds a soft-deleted row for revival.
	FindDeletedByOrgAndUserID(orgID uint, userID string) (*model.User, error)
	ListLearners(orgID uint) ([]model.User, error)
	SoftDeleteByIDs(orgID uint, ids []uint) error
	// Transaction runs fn against a repository bound to one transaction;
	// any error rolls everything back.
	Transaction(fn func(tx UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Save(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Organization").First(&user, id).Error
	return &user, err
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Organization").
		Where("email = ? AND deleted = ?", email, false).
		First(&user).Error
	return &user, err
}

func (r *userRepository) FindLiveByOrgAndUserID(orgID uint, userID string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Organization").
		Where("organization_id = ? AND user_id = ? AND deleted = ?", orgID, userID, false).
		First(&user).Error
	return &user, err
}

func (r *userRepository) FindDeletedByOrgAndUserID(orgID uint, userID string) (*model.User, error) {
	var user model.User
	err := r.db.
		Where("organization_id = ? AND user_id = ? AND deleted = ?", orgID, userID, true).
		First(&user).Error
	return &user, err
}

func (r *userRepository) ListLearners(orgID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("organization_id = ? AND access_type = ? AND deleted = ?", orgID, model.AccessLearner, false).
		Order("first_name ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) SoftDeleteByIDs(orgID uint, ids []uint) error {
	return r.db.Model(&model.User{}).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Updates(map[string]any{"deleted": true, "active": false}).Error
}

func (r *userRepository) Transaction(fn func(tx UserRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

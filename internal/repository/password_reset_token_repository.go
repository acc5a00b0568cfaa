package repository

import (
	"github.com/google/uuid"
	"github.com/skillsim/apiserver/internal/model"
	"gorm.io/gorm"
)

type PasswordResetTokenRepository interface {
	Create(t *model.PasswordResetToken) error
	FindByToken(token uuid.UUID) (*model.PasswordResetToken, error)
	DeleteByUser(userID uint) error
}

type passwordResetTokenRepository struct {
	db *gorm.DB
}

func NewPasswordResetTokenRepository(db *gorm.DB) PasswordResetTokenRepository {
	return &passwordResetTokenRepository{db: db}
}

func (r *passwordResetTokenRepository) Create(t *model.PasswordResetToken) error {
	return r.db.Create(t).Error
}

func (r *passwordResetTokenRepository) FindByToken(token uuid.UUID) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.db.Preload("User").Where("token = ?", token).First(&t).Error
	return &t, err
}

func (r *passwordResetTokenRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.PasswordResetToken{}).Error
}

package model

import (
	"fmt"
	"time"
)

// Access types mirror the dashboard roles: organization admins and trainers
// manage learners, "Cusmat" is the platform operator role.
const (
	AccessAdmin   = "Admin"
	AccessLearner = "Learner"
	AccessTrainer = "Trainer"
	AccessCusmat  = "Cusmat"
)

const (
	GenderMale   = "M"
	GenderFemale = "F"
)

type User struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Email       *string `json:"email,omitempty" gorm:"uniqueIndex"`
	FirstName   string  `json:"first_name" gorm:"size:100"`
	LastName    string  `json:"last_name" gorm:"size:100"`
	Designation string  `json:"designation" gorm:"size:100"`
	Department  string  `json:"department" gorm:"size:100"`
	// WorkLocation is optional for all organizations.
	WorkLocation *string `json:"work_location,omitempty" gorm:"size:250"`
	AccessType   string  `json:"access_type" gorm:"size:64;default:'Learner'"`
	// UserID is the organization-scoped identifier. For mobile-identifier
	// organizations it holds the learner's mobile number.
	UserID   string `json:"user_id" gorm:"size:100;uniqueIndex:idx_users_org_user_id"`
	Password string `json:"-"`

	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty" gorm:"size:64"`
	Course      *string    `json:"course,omitempty" gorm:"size:100"`
	Batch       *string    `json:"batch,omitempty" gorm:"size:100"`
	RollNo      *string    `json:"roll_no,omitempty" gorm:"size:100"`
	Institute   *string    `json:"institute,omitempty" gorm:"size:100"`
	City        *string    `json:"city,omitempty" gorm:"size:100"`
	State       *string    `json:"state,omitempty" gorm:"size:100"`
	VRLab       *string    `json:"vr_lab,omitempty" gorm:"size:100"`

	Active bool `json:"active" gorm:"default:true"`
	Staff  bool `json:"-" gorm:"default:false"`
	Admin  bool `json:"-" gorm:"default:false"`
	// Deleted is a soft-delete flag; rows are never removed so that a
	// re-created (organization, user_id) pair can revive the old record.
	Deleted bool `json:"-" gorm:"default:false"`

	OrganizationID *uint         `json:"organization_id,omitempty" gorm:"uniqueIndex:idx_users_org_user_id"`
	Organization   *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	CreatedByID    *uint         `json:"created_by_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

func (u *User) IsLearner() bool { return u.AccessType == AccessLearner }

package model

import (
	"time"

	"gorm.io/datatypes"
)

// ModuleAttributes is the organization-specific configuration of a Module and
// the unit actually assigned to users.
type ModuleAttributes struct {
	ID             uint         `gorm:"primarykey" json:"id"`
	ModuleID       uint         `json:"module_id" gorm:"not null;index"`
	Module         Module       `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	OrganizationID uint         `json:"organization_id" gorm:"not null;index"`
	Organization   Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`

	MaxAttempts  *uint          `json:"max_attempts,omitempty"`
	PassingScore *float64       `json:"passing_score,omitempty"`
	IdealMistake *float64       `json:"ideal_mistake,omitempty"`
	Mistakes     datatypes.JSON `json:"mistakes,omitempty"`
	ExpiryDate   *time.Time     `json:"expiry_date,omitempty"`
}

func (ModuleAttributes) TableName() string { return "module_attributes" }

package model

import (
	"time"
)

// ModuleActivity records the assignment of a ModuleAttributes to a user.
// De-assignment flips Active to false; rows are never hard-deleted.
// Complete is recomputed after every attempt.
type ModuleActivity struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	UserID uint `json:"user_id" gorm:"not null;index"`
	// references:ID is required here: User and ModuleAttributes carry fields
	// named UserID/ModuleID themselves, which would win the guess otherwise.
	User         User             `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	ModuleID     uint             `json:"module_id" gorm:"not null;index"`
	Module       ModuleAttributes `json:"module,omitempty" gorm:"foreignKey:ModuleID;references:ID"`
	AssignedOn   time.Time        `json:"assigned_on"`
	Active       bool             `json:"active" gorm:"default:true"`
	Passed       bool             `json:"passed" gorm:"default:false"`
	Complete     bool             `json:"complete" gorm:"default:false"`
	CompleteDate *time.Time       `json:"complete_date,omitempty"`
	PassDate     *time.Time       `json:"pass_date,omitempty"`
}

func (ModuleActivity) TableName() string { return "module_activities" }

// LevelActivity is a user's progress record for one level of an assigned
// module, created lazily on the first attempt at that level.
type LevelActivity struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	ModuleActivityID uint           `json:"module_activity_id" gorm:"not null;index"`
	ModuleActivity   ModuleActivity `json:"module_activity,omitempty" gorm:"foreignKey:ModuleActivityID"`
	LevelID uint  `json:"level_id" gorm:"not null;index"`
	Level   Level `json:"level,omitempty" gorm:"foreignKey:LevelID"`
	// No default tag: gorm would skip a zero-valued Complete on insert and
	// the column default would flip it. Creation sets the value explicitly.
	Complete bool `json:"complete"`
}

func (LevelActivity) TableName() string { return "level_activities" }

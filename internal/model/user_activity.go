package model

import (
	"time"
)

// UserActivity is a coarse usage-log event feeding application-usage
// analytics, independent of Attempt.
type UserActivity struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	ModuleID  uint      `json:"module_id" gorm:"not null;index"`
	Module    Module    `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  int64     `json:"duration"` // seconds
	LogEvent  string    `json:"log_event" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserActivity) TableName() string { return "user_activities" }

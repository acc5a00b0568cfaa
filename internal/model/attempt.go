package model

import (
	"time"

	"gorm.io/datatypes"
)

// Attempt is one simulation run against a LevelActivity. Data holds the raw
// telemetry payload sent by the simulation client and is treated as untrusted
// free-form JSON throughout.
type Attempt struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	LevelActivityID uint           `json:"level_activity_id" gorm:"not null;uniqueIndex:idx_attempts_level_activity_number"`
	LevelActivity   LevelActivity  `json:"level_activity,omitempty" gorm:"foreignKey:LevelActivityID"`
	AttemptNumber   uint           `json:"attempt_number" gorm:"uniqueIndex:idx_attempts_level_activity_number"`
	Data            datatypes.JSON `json:"data"`
	Duration        int64          `json:"duration"` // seconds
	StartTime       time.Time      `json:"start_time"`
	EndTime         time.Time      `json:"end_time"`
	CreatedAt       time.Time      `json:"created_at"`
}

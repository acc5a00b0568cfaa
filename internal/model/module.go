package model

import (
	"time"
)

// Module is a training unit ("forklift", "reach truck", ...). Per-organization
// settings live in ModuleAttributes.
type Module struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `json:"name" gorm:"size:120;not null"`
	Duration  int64     `json:"duration"` // nominal duration, seconds
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category orders level groups, e.g. "Training" before "Assessment".
type Category struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `json:"name" gorm:"size:150"`
	Order int16  `json:"order" gorm:"column:ordinal"`
}

func (Category) TableName() string { return "categories" }

type Level struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	ModuleID   uint     `json:"module_id" gorm:"not null;index"`
	Module     Module   `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	Name       string   `json:"name" gorm:"size:150"`
	Level      uint16   `json:"level"` // ordinal within the module
	CategoryID uint     `json:"category_id"`
	Category   Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

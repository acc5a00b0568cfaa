package model

import (
	"time"
)

type Organization struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `json:"name" gorm:"not null"`
	Logo      string    `json:"logo,omitempty"`
	Slug      string    `json:"slug" gorm:"size:200;index"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"` // license expiry
	CreatedAt time.Time `json:"created_at"`
}

func (Organization) TableName() string { return "organizations" }

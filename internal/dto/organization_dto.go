package dto

import "time"

type OrganizationResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo,omitempty"`
	Slug      string    `json:"slug"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateOrganizationRequest struct {
	Name      string    `json:"name" binding:"required"`
	Logo      string    `json:"logo"`
	Slug      string    `json:"slug" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

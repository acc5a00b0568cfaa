package dto

import "time"

type UserResponse struct {
	ID           uint       `json:"id"`
	Email        *string    `json:"email,omitempty"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	UserID       string     `json:"user_id"`
	Designation  string     `json:"designation"`
	Department   string     `json:"department"`
	WorkLocation *string    `json:"work_location,omitempty"`
	AccessType   string     `json:"access_type"`
	Active       bool       `json:"active"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Gender       *string    `json:"gender,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CreateUserRequest struct {
	FirstName    string  `json:"first_name" binding:"required"`
	LastName     string  `json:"last_name" binding:"required"`
	UserID       string  `json:"user_id" binding:"required"`
	Designation  string  `json:"designation" binding:"required"`
	Department   string  `json:"department" binding:"required"`
	WorkLocation *string `json:"work_location"`
	Password     string  `json:"password"`
}

type BulkDeleteUsersRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required,min=1"`
}

// CSVImportError describes one rejected row in the original dashboard
// wording, e.g. "Required field User Id is missing at row 4".
type CSVImportError struct {
	Row     int    `json:"row,omitempty"`
	Message string `json:"message"`
}

type CSVImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []CSVImportError `json:"errors,omitempty"`
}

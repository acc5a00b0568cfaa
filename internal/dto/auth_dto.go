package dto

// DashboardLoginRequest authenticates dashboard staff by email.
type DashboardLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AppLoginRequest authenticates a learner from the simulation client by the
// organization-scoped identifier.
type AppLoginRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	OrganizationID uint   `json:"organization_id" binding:"required"`
	Password       string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordResponse carries the reset URL back to the caller; mail
// delivery is handled outside this service.
type ForgotPasswordResponse struct {
	ResetURL string `json:"reset_url"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required,uuid"`
	Password string `json:"password" binding:"required,min=6"`
}

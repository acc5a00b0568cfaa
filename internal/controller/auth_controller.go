package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/service"
)

type AuthController struct {
	authSvc service.AuthService
}

func NewAuthController(authSvc service.AuthService) *AuthController {
	return &AuthController{authSvc: authSvc}
}

// DashboardLoginHandler godoc
// @Summary Dashboard login
// @Description Authenticates dashboard staff by email and password. Learner accounts are rejected.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.DashboardLoginRequest true "Email and password"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/dashboard/login [post]
func (ctrl *AuthController) DashboardLoginHandler(c *gin.Context) {
	var req dto.DashboardLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	tokens, err := ctrl.authSvc.DashboardLogin(req)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Dashboard login rejected")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// AppLoginHandler godoc
// @Summary Simulator client login
// @Description Authenticates a learner by the organization-scoped user id. The organization's license window is enforced.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.AppLoginRequest true "User id, organization id and password"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Organization license has expired"
// @Router /auth/app/login [post]
func (ctrl *AuthController) AppLoginHandler(c *gin.Context) {
	var req dto.AppLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	tokens, err := ctrl.authSvc.AppLogin(req)
	if err != nil {
		if errors.Is(err, service.ErrLicenseExpired) {
			c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
			return
		}
		log.Warn().Err(err).Uint("organization_id", req.OrganizationID).Msg("App login rejected")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// RefreshHandler godoc
// @Summary Refresh tokens
// @Description Exchanges a valid refresh token for a new access/refresh pair
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (ctrl *AuthController) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	tokens, err := ctrl.authSvc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// ForgotPasswordHandler godoc
// @Summary Request a password reset
// @Description Issues a single-use reset token for the account. The reset URL is returned; mail delivery happens elsewhere.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.ForgotPasswordResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Unknown email"
// @Router /auth/forgot-password [post]
func (ctrl *AuthController) ForgotPasswordHandler(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.authSvc.ForgotPassword(req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No account with that email"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResetPasswordHandler godoc
// @Summary Reset a password
// @Description Sets a new password against a valid, unexpired reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or token"
// @Failure 401 {object} dto.ErrorResponse "Token expired"
// @Router /auth/reset-password [post]
func (ctrl *AuthController) ResetPasswordHandler(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.authSvc.ResetPassword(req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid reset token"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password updated"})
}

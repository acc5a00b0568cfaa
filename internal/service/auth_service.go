package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsim/apiserver/config"
	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLicenseExpired     = errors.New("organization license has expired")
	ErrTokenExpired       = errors.New("token has expired")
)

// Claims carries the authenticated identity plus the organization's license
// expiry, which the simulation clients check before starting a session.
type Claims struct {
	UserID         uint       `json:"user_id"`
	AccessType     string     `json:"access_type"`
	OrganizationID *uint      `json:"organization_id,omitempty"`
	LicenseExpiry  *time.Time `json:"license_expiry_date,omitempty"`
	TokenType      string     `json:"token_type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// DashboardLogin authenticates staff by email. Learners cannot use the
	// dashboard.
	DashboardLogin(req dto.DashboardLoginRequest) (*dto.TokenResponse, error)
	// AppLogin authenticates a learner from the simulation client and
	// enforces the organization's license window.
	AppLogin(req dto.AppLoginRequest) (*dto.TokenResponse, error)
	Refresh(refreshToken string) (*dto.TokenResponse, error)
	ParseToken(token string) (*Claims, error)
	ForgotPassword(email string) (*dto.ForgotPasswordResponse, error)
	ResetPassword(token, password string) error
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.PasswordResetTokenRepository
	cfg       *config.Config
	now       func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.PasswordResetTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{userRepo: userRepo, tokenRepo: tokenRepo, cfg: cfg, now: time.Now}
}

func (s *authService) DashboardLogin(req dto.DashboardLoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsLearner() || !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) AppLogin(req dto.AppLoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindLiveByOrgAndUserID(req.OrganizationID, req.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsLearner() || !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Organization != nil && !user.Organization.EndDate.IsZero() && user.Organization.EndDate.Before(s.now()) {
		return nil, ErrLicenseExpired
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	access, err := s.signToken(user, "access", time.Duration(s.cfg.JWT.AccessTTLMins)*time.Minute)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, "refresh", time.Duration(s.cfg.JWT.RefreshTTLHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	var userResp dto.UserResponse
	if err := copier.Copy(&userResp, user); err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: access, RefreshToken: refresh, User: userResp}, nil
}

func (s *authService) signToken(user *model.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:         user.ID,
		AccessType:     user.AccessType,
		OrganizationID: user.OrganizationID,
		TokenType:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if user.Organization != nil && !user.Organization.EndDate.IsZero() {
		expiry := user.Organization.EndDate
		claims.LicenseExpiry = &expiry
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.Secret))
}

func (s *authService) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

func (s *authService) ForgotPassword(email string) (*dto.ForgotPasswordResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.tokenRepo.DeleteByUser(user.ID); err != nil {
		return nil, err
	}
	token := model.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.New(),
		ExpiresAt: s.now().Add(24 * time.Hour),
	}
	if err := s.tokenRepo.Create(&token); err != nil {
		return nil, err
	}
	log.Info().Uint("user_id", user.ID).Msg("password reset token issued")
	return &dto.ForgotPasswordResponse{
		ResetURL: fmt.Sprintf("/reset-password?token=%s", token.Token),
	}, nil
}

func (s *authService) ResetPassword(rawToken, password string) error {
	tokenID, err := uuid.Parse(rawToken)
	if err != nil {
		return ErrInvalidCredentials
	}
	token, err := s.tokenRepo.FindByToken(tokenID)
	if err != nil {
		return ErrInvalidCredentials
	}
	if token.ExpiresAt.Before(s.now()) {
		return ErrTokenExpired
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	token.User.Password = string(hashed)
	if err := s.userRepo.Save(&token.User); err != nil {
		return err
	}
	return s.tokenRepo.DeleteByUser(token.UserID)
}

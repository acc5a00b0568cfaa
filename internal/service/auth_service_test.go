package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/skillsim/apiserver/config"
	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
)

func dashboardLogin(email, password string) dto.DashboardLoginRequest {
	return dto.DashboardLoginRequest{Email: email, Password: password}
}

func appLogin(userID string, orgID uint, password string) dto.AppLoginRequest {
	return dto.AppLoginRequest{UserID: userID, OrganizationID: orgID, Password: password}
}

func newAuthService(db *gorm.DB) *authService {
	cfg := &config.Config{
		JWT: config.JWT{Secret: "test-secret", AccessTTLMins: 15, RefreshTTLHours: 24},
	}
	return &authService{
		userRepo:  repository.NewUserRepository(db),
		tokenRepo: repository.NewPasswordResetTokenRepository(db),
		cfg:       cfg,
		now:       time.Now,
	}
}

func seedStaff(t *testing.T, db *gorm.DB, org *model.Organization, email, password string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &model.User{
		FirstName:      "Org",
		LastName:       "Admin",
		UserID:         "A1",
		Designation:    "Manager",
		Department:     "Ops",
		AccessType:     model.AccessAdmin,
		Email:          &email,
		Password:       string(hashed),
		Active:         true,
		OrganizationID: &org.ID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestDashboardLogin(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	seedStaff(t, db, org, "admin@acme.test", "secret123")
	svc := newAuthService(db)

	t.Run("staff with the right password", func(t *testing.T) {
		tokens, err := svc.DashboardLogin(dashboardLogin("admin@acme.test", "secret123"))
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, "Org", tokens.User.FirstName)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.DashboardLogin(dashboardLogin("admin@acme.test", "nope"))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("learners cannot use the dashboard", func(t *testing.T) {
		learner := seedLearner(t, db, org, "E1")
		hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
		require.NoError(t, db.Model(learner).Update("password", string(hashed)).Error)
		_, err := svc.DashboardLogin(dashboardLogin(*learner.Email, "secret123"))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAppLogin(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	learner := seedLearner(t, db, org, "E1")
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Model(learner).Update("password", string(hashed)).Error)
	svc := newAuthService(db)

	t.Run("learner logs in with the scoped identifier", func(t *testing.T) {
		tokens, err := svc.AppLogin(appLogin("E1", org.ID, "secret123"))
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("expired license is rejected", func(t *testing.T) {
		require.NoError(t, db.Model(org).Update("end_date",
			time.Now().AddDate(0, 0, -1)).Error)
		_, err := svc.AppLogin(appLogin("E1", org.ID, "secret123"))
		assert.ErrorIs(t, err, ErrLicenseExpired)
	})
}

func TestRefresh(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	seedStaff(t, db, org, "admin@acme.test", "secret123")
	svc := newAuthService(db)

	tokens, err := svc.DashboardLogin(dashboardLogin("admin@acme.test", "secret123"))
	require.NoError(t, err)

	t.Run("refresh token issues a new pair", func(t *testing.T) {
		fresh, err := svc.Refresh(tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(tokens.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "acme")
	user := seedStaff(t, db, org, "admin@acme.test", "oldsecret")
	svc := newAuthService(db)

	resp, err := svc.ForgotPassword("admin@acme.test")
	require.NoError(t, err)
	assert.Contains(t, resp.ResetURL, "token=")

	var token model.PasswordResetToken
	require.NoError(t, db.First(&token).Error)

	require.NoError(t, svc.ResetPassword(token.Token.String(), "brandnew"))

	t.Run("updates the existing user row in place", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		var reloaded model.User
		require.NoError(t, db.First(&reloaded, user.ID).Error)
		assert.Equal(t, "admin@acme.test", *reloaded.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("brandnew")))
	})

	t.Run("token is spent after use", func(t *testing.T) {
		err := svc.ResetPassword(token.Token.String(), "another")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("new password logs in", func(t *testing.T) {
		_, err := svc.DashboardLogin(dashboardLogin("admin@acme.test", "brandnew"))
		assert.NoError(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := model.PasswordResetToken{
			UserID:    user.ID,
			Token:     uuid.New(),
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		require.NoError(t, db.Create(&expired).Error)
		err := svc.ResetPassword(expired.Token.String(), "whatever")
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("malformed token", func(t *testing.T) {
		err := svc.ResetPassword("not-a-uuid", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

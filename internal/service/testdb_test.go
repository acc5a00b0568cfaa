package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillsim/apiserver/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A private in-memory database lives per connection; pin the pool to one
	// so every query sees the migrated schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.Module{},
		&model.Category{},
		&model.Level{},
		&model.ModuleAttributes{},
		&model.ModuleActivity{},
		&model.LevelActivity{},
		&model.Attempt{},
		&model.UserActivity{},
		&model.PasswordResetToken{},
	))
	return db
}

func seedOrg(t *testing.T, db *gorm.DB, name string) *model.Organization {
	t.Helper()
	org := &model.Organization{
		Name:      name,
		Slug:      name,
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func seedLearner(t *testing.T, db *gorm.DB, org *model.Organization, userID string) *model.User {
	t.Helper()
	email := userID + "@" + org.Slug + ".test"
	user := &model.User{
		FirstName:      "Test",
		LastName:       userID,
		UserID:         userID,
		Designation:    "Operator",
		Department:     "Warehouse",
		AccessType:     model.AccessLearner,
		Email:          &email,
		Active:         true,
		OrganizationID: &org.ID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedModule creates a module with its per-organization configuration.
func seedModule(t *testing.T, db *gorm.DB, org *model.Organization, name string, passingScore *float64) (*model.Module, *model.ModuleAttributes) {
	t.Helper()
	module := &model.Module{Name: name}
	require.NoError(t, db.Create(module).Error)
	attrs := &model.ModuleAttributes{
		ModuleID:       module.ID,
		OrganizationID: org.ID,
		PassingScore:   passingScore,
	}
	require.NoError(t, db.Create(attrs).Error)
	return module, attrs
}

func seedAssignment(t *testing.T, db *gorm.DB, user *model.User, attrs *model.ModuleAttributes, assignedOn time.Time, complete bool, completeDate *time.Time) *model.ModuleActivity {
	t.Helper()
	activity := &model.ModuleActivity{
		UserID:       user.ID,
		ModuleID:     attrs.ID,
		AssignedOn:   assignedOn,
		Active:       true,
		Complete:     complete,
		CompleteDate: completeDate,
	}
	require.NoError(t, db.Create(activity).Error)
	return activity
}

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }

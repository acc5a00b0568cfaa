package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillsim/apiserver/config"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
)

const standardHeader = "First Name,Last Name,User Id,Designation,Department,Work Location,Password"

const mobileHeader = "First Name,Last Name,Mobile No,Designation,Department,Work Location," +
	"Date of Birth,Gender,Course,Batch,Roll No,Institute,City,State,VR Lab,PIN"

func mobileFile(rows ...string) string {
	lines := append([]string{
		"Date must be in a YYYY-MM-DD format.",
		"Mobile No. should be 10 digits only.",
		"Gender can be either Male or Female. Default is Male",
		"",
		mobileHeader,
	}, rows...)
	return strings.Join(lines, "\n")
}

func newCSVService(db *gorm.DB) UserCSVService {
	cfg := &config.Config{MobileIdentifierOrgs: []string{"immertive"}}
	return NewUserCSVService(
		repository.NewUserRepository(db),
		repository.NewOrganizationRepository(db),
		cfg,
	)
}

func TestImportUsers(t *testing.T) {
	t.Run("creates learners and synthesizes emails", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)

		file := strings.Join([]string{
			standardHeader,
			"John,Doe,E1,Operator,Warehouse,HQ,secret1",
			"Jane,Roe,E2,Operator,Warehouse,,secret2",
		}, "\n")

		result, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)

		var user model.User
		require.NoError(t, db.Where("user_id = ?", "E1").First(&user).Error)
		require.NotNil(t, user.Email)
		assert.Equal(t, "johne1@acme-corp.com", *user.Email)
		assert.Equal(t, model.AccessLearner, user.AccessType)
		assert.True(t, user.Active)
	})

	t.Run("changed header aborts before any row", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)

		file := "Last Name,First Name,User Id,Designation,Department,Work Location,Password\n" +
			"Doe,John,E1,Operator,Warehouse,,x"
		_, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.Error(t, err)
		assert.Equal(t, headerChangedMessage, err.Error())
	})

	t.Run("header only is an empty file", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)

		_, err := svc.ImportUsers(org.ID, 1, strings.NewReader(standardHeader))
		require.Error(t, err)
		assert.Equal(t, "Empty file found", err.Error())
	})

	t.Run("invalid row cites its file position and rolls back the batch", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)

		file := strings.Join([]string{
			standardHeader,
			"John,Doe,E1,Operator,Warehouse,,x",
			"Jane,Roe,E2,Operator,Warehouse,,x",
			"Bad,Row,,Operator,Warehouse,,x",
		}, "\n")

		_, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.Error(t, err)
		assert.Equal(t, "Required field User id is missing at row 4", err.Error())

		var count int64
		require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
		assert.Zero(t, count, "earlier rows roll back with the failed one")
	})

	t.Run("several missing fields are joined", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)

		file := standardHeader + "\n,,E1,,Warehouse,,x"
		_, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.Error(t, err)
		assert.Equal(t, "Required fields First name, Last name and Designation are missing at row 2", err.Error())
	})

	t.Run("re-importing live users fails per row", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)

		file := standardHeader + "\nJohn,Doe,E1,Operator,Warehouse,,x"
		_, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.NoError(t, err)

		_, err = svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.Error(t, err)
		assert.Equal(t, "The user with given User Id E1 at row 2 for user John Doe already exists", err.Error())
	})

	t.Run("revives a soft-deleted identifier", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)

		old := seedLearner(t, db, org, "E1")
		require.NoError(t, db.Model(old).Updates(map[string]any{"deleted": true, "active": false}).Error)

		file := standardHeader + "\nJohn,Doe,E1,Operator,Warehouse,,x"
		result, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)

		var revived model.User
		require.NoError(t, db.Where("user_id = ?", "E1").First(&revived).Error)
		assert.Equal(t, old.ID, revived.ID, "the old row is reused")
		assert.False(t, revived.Deleted)
		assert.True(t, revived.Active)
		assert.Equal(t, "John", revived.FirstName)
	})
}

func TestImportUsersMobile(t *testing.T) {
	t.Run("accepts a file built from the downloaded template", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Immertive")
		svc := newCSVService(db)

		// The template's blank spacer line must not shift the header offset.
		_, tmpl, err := svc.Template(org.ID, "create")
		require.NoError(t, err)
		file := string(tmpl) + "Ravi,S,9123456780,Operator,Lab,,,,,,,,,,,4321\n"

		result, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
	})

	t.Run("validates the mobile number", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Immertive")
		svc := newCSVService(db)

		file := mobileFile("Asha,K,12345,Operator,Lab,,,,,,,,,,,1234")
		_, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.Error(t, err)
		assert.Equal(t, "Invalid mobile number at row 6", err.Error())
	})

	t.Run("defaults gender and parses the birth date", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Immertive")
		svc := newCSVService(db)

		file := mobileFile("Asha,K,9876543210,Operator,Lab,,1999-01-02,,,,,,,,,1234")
		result, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)

		var user model.User
		require.NoError(t, db.Where("user_id = ?", "9876543210").First(&user).Error)
		require.NotNil(t, user.Gender)
		assert.Equal(t, model.GenderMale, *user.Gender)
		require.NotNil(t, user.DateOfBirth)
		assert.Equal(t, "1999-01-02", user.DateOfBirth.Format("2006-01-02"))
		require.NotNil(t, user.Email)
		assert.Equal(t, "asha9876543210@immertive.com", *user.Email)
	})

	t.Run("rejects a wrong date format", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Immertive")
		svc := newCSVService(db)

		file := mobileFile("Asha,K,9876543210,Operator,Lab,,02-01-1999,,,,,,,,,1234")
		_, err := svc.ImportUsers(org.ID, 1, strings.NewReader(file))
		require.Error(t, err)
		assert.Equal(t, "Invalid date format. Expected format: YYYY-MM-DD at row 6", err.Error())
	})
}

func TestUpdateUsers(t *testing.T) {
	t.Run("empty cells leave fields untouched", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)
		seedLearner(t, db, org, "E1")

		file := "User Id,Designation,Department,Work Location\nE1,Senior Operator,,"
		result, err := svc.UpdateUsers(org.ID, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)

		var user model.User
		require.NoError(t, db.Where("user_id = ?", "E1").First(&user).Error)
		assert.Equal(t, "Senior Operator", user.Designation)
		assert.Equal(t, "Warehouse", user.Department, "empty cell keeps the old value")
	})

	t.Run("unknown identifier keeps the rows already applied", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)
		seedLearner(t, db, org, "E1")

		file := "User Id,Designation,Department,Work Location\n" +
			"E1,Senior Operator,,\n" +
			"E9,Lead,,"
		result, err := svc.UpdateUsers(org.ID, strings.NewReader(file))
		require.Error(t, err)
		assert.Equal(t, "User with user_id E9 does not exist in the organization", err.Error())
		require.NotNil(t, result)
		assert.Equal(t, 1, result.Updated, "the first row stays applied")

		var user model.User
		require.NoError(t, db.Where("user_id = ?", "E1").First(&user).Error)
		assert.Equal(t, "Senior Operator", user.Designation)
	})

	t.Run("header is compared as a field set", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)
		seedLearner(t, db, org, "E1")

		// Same columns, different order.
		file := "Department,User Id,Work Location,Designation\nOps,E1,,"
		result, err := svc.UpdateUsers(org.ID, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
	})

	t.Run("foreign column rejects the file", func(t *testing.T) {
		db := newTestDB(t)
		org := seedOrg(t, db, "Acme Corp")
		svc := newCSVService(db)

		file := "User Id,Designation,Department,Password\nE1,x,y,z"
		_, err := svc.UpdateUsers(org.ID, strings.NewReader(file))
		require.Error(t, err)
		assert.Equal(t, headerChangedMessage, err.Error())
	})
}

func TestTemplate(t *testing.T) {
	db := newTestDB(t)
	standard := seedOrg(t, db, "Acme Corp")
	mobile := seedOrg(t, db, "Immertive")
	svc := newCSVService(db)

	t.Run("standard create template", func(t *testing.T) {
		filename, content, err := svc.Template(standard.ID, "create")
		require.NoError(t, err)
		assert.Equal(t, "UserSampleInfo.csv", filename)
		assert.Equal(t, standardHeader+"\n", string(content))
	})

	t.Run("mobile create template carries the instruction rows", func(t *testing.T) {
		_, content, err := svc.Template(mobile.ID, "create")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "Date must be in a YYYY-MM-DD format.", lines[0])
		assert.Equal(t, "", lines[3])
		assert.Equal(t, mobileHeader, lines[4])
	})

	t.Run("update template", func(t *testing.T) {
		filename, content, err := svc.Template(standard.ID, "update")
		require.NoError(t, err)
		assert.Equal(t, "UpdateUserSampleInfo.csv", filename)
		assert.Equal(t, "User Id,Designation,Department,Work Location\n", string(content))
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, _, err := svc.Template(standard.ID, "bogus")
		require.Error(t, err)
		assert.Equal(t, "Encountered invalid slug", err.Error())
	})
}

func TestExportUsers(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db, "Acme Corp")
	seedLearner(t, db, org, "E1")
	svc := newCSVService(db)

	filename, content, err := svc.ExportUsers(org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp Users.csv", filename)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "User Id,First Name,Last Name,Designation,Department,Work Location", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "E1,Test,E1,Operator,Warehouse"))
}

package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/skillsim/apiserver/config"
	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
)

// CSVError marks failures caused by the uploaded file rather than the
// system, so controllers can answer 400 instead of 500.
type CSVError struct {
	Message string
}

func (e *CSVError) Error() string { return e.Message }

func csvErrorf(format string, args ...any) error {
	return &CSVError{Message: fmt.Sprintf(format, args...)}
}

const (
	headerChangedMessage = "It looks like the headers in the CSV file have been changed. Please make sure to use the original template and try again."
	genericCSVMessage    = "Something went wrong. Please try again later."
)

// csvSchema is the explicit header contract of one template variant.
// Validation of the header happens before any row is converted.
type csvSchema struct {
	headings []string
	// headerRows counts the physical file rows before the first data row, so
	// error messages can cite absolute row numbers.
	headerRows int
	// headerRecords counts the parsed records before the data. encoding/csv
	// drops fully blank lines, so the mobile template's spacer line makes
	// this one less than headerRows there.
	headerRecords int
	// replacements map canonical column names to the stored field, e.g.
	// mobile_no to user_id.
	replacements map[string]string
	required     []string
	// identifier is the column holding the organization-scoped login id,
	// in template wording.
	identifier string
}

var standardCreateSchema = csvSchema{
	headings:      []string{"First Name", "Last Name", "User Id", "Designation", "Department", "Work Location", "Password"},
	headerRows:    1,
	headerRecords: 1,
	required:      []string{"first_name", "last_name", "user_id", "designation", "department"},
	identifier:    "user_id",
}

// Mobile-identifier organizations get demographic columns, a PIN instead of
// a password, and three instruction lines plus a blank line above the
// header.
var mobileCreateSchema = csvSchema{
	headings: []string{"First Name", "Last Name", "Mobile No", "Designation", "Department", "Work Location",
		"Date of Birth", "Gender", "Course", "Batch", "Roll No", "Institute", "City", "State", "VR Lab", "PIN"},
	headerRows:    5,
	headerRecords: 4,
	replacements:  map[string]string{"mobile_no": "user_id", "pin": "password"},
	required:      []string{"first_name", "last_name", "user_id", "designation", "department"},
	identifier:    "mobile_no",
}

var templateInstructions = []string{
	"Date must be in a YYYY-MM-DD format.",
	"Mobile No. should be 10 digits only.",
	"Gender can be either Male or Female. Default is Male",
}

var standardUpdateFields = []string{"user_id", "designation", "department", "work_location"}

var mobileUpdateFields = []string{"mobile_no", "designation", "department", "work_location",
	"course", "batch", "roll_no", "institute", "city", "state", "vr_lab"}

type UserCSVService interface {
	// ImportUsers creates learners from an uploaded CSV. The whole batch is
	// one transaction: the first invalid row rolls back everything.
	ImportUsers(orgID, createdByID uint, file io.Reader) (*dto.CSVImportResult, error)
	// UpdateUsers applies per-row field updates. Rows already applied stay
	// applied when a later row references an unknown user.
	UpdateUsers(orgID uint, file io.Reader) (*dto.CSVImportResult, error)
	// Template renders the create or update CSV template for the
	// organization's variant. mode is "create" or "update".
	Template(orgID uint, mode string) (filename string, content []byte, err error)
	// ExportUsers renders the organization's learners as CSV.
	ExportUsers(orgID uint) (filename string, content []byte, err error)
}

type userCSVService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	cfg      *config.Config
}

func NewUserCSVService(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	cfg *config.Config,
) UserCSVService {
	return &userCSVService{userRepo: userRepo, orgRepo: orgRepo, cfg: cfg}
}

func (s *userCSVService) ImportUsers(orgID, createdByID uint, file io.Reader) (*dto.CSVImportResult, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return nil, &CSVError{Message: "Given Organization does not exist. Please contact your organization admin"}
	}
	mobile := s.cfg.UsesMobileIdentifiers(org.Name)
	schema := standardCreateSchema
	if mobile {
		schema = mobileCreateSchema
	}

	header, rows, err := readCSV(file, schema.headerRecords)
	if err != nil {
		return nil, err
	}
	if !equalHeadings(header, schema.headings) {
		return nil, &CSVError{Message: headerChangedMessage}
	}
	if len(rows) == 0 {
		return nil, &CSVError{Message: "Empty file found"}
	}

	fields := canonicalFields(header, schema.replacements)
	result := &dto.CSVImportResult{}

	err = s.userRepo.Transaction(func(tx repository.UserRepository) error {
		for i, row := range rows {
			rowNum := i + 1 + schema.headerRows
			record := zipRow(fields, row)

			if missing := missingFields(record, schema.required); len(missing) > 0 {
				return missingFieldsError(missing, mobile, rowNum)
			}
			identifier := record["user_id"]
			if mobile && !validMobileNumber(identifier) {
				return csvErrorf("Invalid mobile number at row %d", rowNum)
			}

			user, buildErr := s.buildUser(record, org, createdByID, mobile, rowNum)
			if buildErr != nil {
				return buildErr
			}

			if createErr := upsertLearner(tx, user, orgID, identifier); createErr != nil {
				var csvErr *CSVError
				if errors.As(createErr, &csvErr) {
					return csvErrorf("The user with given %s %s at row %d for user %s already exists",
						titleCase(schema.identifier), identifier, rowNum, user.FullName())
				}
				log.Error().Err(createErr).Int("row", rowNum).Msg("csv import failed")
				return &CSVError{Message: genericCSVMessage}
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *userCSVService) buildUser(record map[string]string, org *model.Organization, createdByID uint, mobile bool, rowNum int) (*model.User, error) {
	identifier := record["user_id"]
	email := strings.ToLower(record["first_name"]) + strings.ToLower(identifier) +
		"@" + strings.ToLower(strings.ReplaceAll(org.Name, " ", "-")) + ".com"

	hashed, err := bcrypt.GenerateFromPassword([]byte(record["password"]), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName:      record["first_name"],
		LastName:       record["last_name"],
		UserID:         identifier,
		Designation:    record["designation"],
		Department:     record["department"],
		AccessType:     model.AccessLearner,
		Email:          &email,
		Password:       string(hashed),
		Active:         true,
		Deleted:        false,
		OrganizationID: &org.ID,
		CreatedByID:    &createdByID,
	}
	if v, ok := record["work_location"]; ok && v != "" {
		user.WorkLocation = &v
	}
	if raw, ok := record["date_of_birth"]; ok && raw != "" {
		dob, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			return nil, csvErrorf("Invalid date format. Expected format: YYYY-MM-DD at row %d", rowNum)
		}
		user.DateOfBirth = &dob
	}
	if _, ok := record["gender"]; ok {
		gender := record["gender"]
		if gender == "" {
			gender = model.GenderMale
		}
		user.Gender = &gender
	}
	if mobile {
		user.Course = optional(record, "course")
		user.Batch = optional(record, "batch")
		user.RollNo = optional(record, "roll_no")
		user.Institute = optional(record, "institute")
		user.City = optional(record, "city")
		user.State = optional(record, "state")
		user.VRLab = optional(record, "vr_lab")
	}
	return user, nil
}

// upsertLearner revives a soft-deleted row carrying the same identifier,
// otherwise creates a fresh one. A live duplicate is reported, never
// overwritten.
func upsertLearner(tx repository.UserRepository, user *model.User, orgID uint, identifier string) error {
	deleted, err := tx.FindDeletedByOrgAndUserID(orgID, identifier)
	if err == nil {
		user.ID = deleted.ID
		user.CreatedAt = deleted.CreatedAt
		return tx.Save(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if _, err := tx.FindLiveByOrgAndUserID(orgID, identifier); err == nil {
		return &CSVError{Message: "duplicate"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(user)
}

func (s *userCSVService) UpdateUsers(orgID uint, file io.Reader) (*dto.CSVImportResult, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return nil, &CSVError{Message: "Given Organization does not exist. Please contact your organization admin"}
	}
	mobile := s.cfg.UsesMobileIdentifiers(org.Name)
	updatable := standardUpdateFields
	identifierName := "user_id"
	replacements := map[string]string{}
	if mobile {
		updatable = mobileUpdateFields
		identifierName = "mobile_no"
		replacements = map[string]string{"mobile_no": "user_id"}
	}

	header, rows, err := readCSV(file, 1)
	if err != nil {
		return nil, err
	}
	if !sameFieldSet(canonicalFields(header, nil), updatable) {
		return nil, &CSVError{Message: headerChangedMessage}
	}
	if len(rows) == 0 {
		return nil, &CSVError{Message: "Empty file found"}
	}

	fields := canonicalFields(header, replacements)
	result := &dto.CSVImportResult{}

	// Updates apply row by row: a bad row stops the run but keeps the rows
	// already written.
	for i, row := range rows {
		rowNum := i + 2
		record := zipRow(fields, row)
		identifier := record["user_id"]
		if identifier == "" {
			return result, csvErrorf("Required field %s is missing at row %d", identifierName, rowNum)
		}
		user, findErr := s.userRepo.FindLiveByOrgAndUserID(orgID, identifier)
		if findErr != nil {
			return result, csvErrorf("User with %s %s does not exist in the organization", identifierName, identifier)
		}
		applyUpdates(user, record)
		if saveErr := s.userRepo.Save(user); saveErr != nil {
			return result, saveErr
		}
		result.Updated++
	}
	return result, nil
}

// applyUpdates copies non-empty cells onto the user; empty cells leave the
// current value untouched.
func applyUpdates(user *model.User, record map[string]string) {
	for field, value := range record {
		if value == "" {
			continue
		}
		v := value
		switch field {
		case "user_id":
			user.UserID = v
		case "designation":
			user.Designation = v
		case "department":
			user.Department = v
		case "work_location":
			user.WorkLocation = &v
		case "course":
			user.Course = &v
		case "batch":
			user.Batch = &v
		case "roll_no":
			user.RollNo = &v
		case "institute":
			user.Institute = &v
		case "city":
			user.City = &v
		case "state":
			user.State = &v
		case "vr_lab":
			user.VRLab = &v
		}
	}
}

func (s *userCSVService) Template(orgID uint, mode string) (string, []byte, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return "", nil, &CSVError{Message: "Given organization not found"}
	}
	mobile := s.cfg.UsesMobileIdentifiers(org.Name)

	var filename string
	var headings []string
	var instructions []string
	switch mode {
	case "create":
		filename = "UserSampleInfo.csv"
		headings = standardCreateSchema.headings
		if mobile {
			headings = mobileCreateSchema.headings
			instructions = templateInstructions
		}
	case "update":
		filename = "UpdateUserSampleInfo.csv"
		headings = headingsFor(standardUpdateFields)
		if mobile {
			headings = headingsFor(mobileUpdateFields)
		}
	default:
		return "", nil, &CSVError{Message: "Encountered invalid slug"}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, instruction := range instructions {
		if err := w.Write([]string{instruction}); err != nil {
			return "", nil, err
		}
	}
	if len(instructions) > 0 {
		if err := w.Write([]string{""}); err != nil {
			return "", nil, err
		}
	}
	if err := w.Write(headings); err != nil {
		return "", nil, err
	}
	w.Flush()
	return filename, buf.Bytes(), w.Error()
}

func (s *userCSVService) ExportUsers(orgID uint) (string, []byte, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return "", nil, &CSVError{Message: "Given organization not found"}
	}
	mobile := s.cfg.UsesMobileIdentifiers(org.Name)
	users, err := s.userRepo.ListLearners(orgID)
	if err != nil {
		return "", nil, err
	}

	headings := []string{"User Id", "First Name", "Last Name", "Designation", "Department", "Work Location"}
	if mobile {
		headings = append([]string{"Mobile No", "First Name", "Last Name", "Designation", "Department", "Work Location"},
			"Date of Birth", "Gender", "Course", "Batch", "Roll No", "Institute", "City", "State", "VR Lab")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headings); err != nil {
		return "", nil, err
	}
	for _, u := range users {
		row := []string{u.UserID, u.FirstName, u.LastName, u.Designation, u.Department, deref(u.WorkLocation)}
		if mobile {
			dob := ""
			if u.DateOfBirth != nil {
				dob = u.DateOfBirth.Format("2006-01-02")
			}
			row = append(row, dob, deref(u.Gender), deref(u.Course), deref(u.Batch), deref(u.RollNo),
				deref(u.Institute), deref(u.City), deref(u.State), deref(u.VRLab))
		}
		if err := w.Write(row); err != nil {
			return "", nil, err
		}
	}
	w.Flush()
	return org.Name + " Users.csv", buf.Bytes(), w.Error()
}

// readCSV loads the whole file, returning the header row and the data rows.
// headerRecords counts the parsed records above the data, instruction lines
// included; blank lines never reach the parsed records.
func readCSV(file io.Reader, headerRecords int) ([]string, [][]string, error) {
	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, &CSVError{Message: genericCSVMessage}
	}
	if len(records) < headerRecords {
		return nil, nil, &CSVError{Message: "CSV file is empty or has no headers"}
	}
	return records[headerRecords-1], records[headerRecords:], nil
}

func equalHeadings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func sameFieldSet(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	set := make(map[string]bool, len(want))
	for _, f := range want {
		set[f] = true
	}
	for _, f := range got {
		if !set[f] {
			return false
		}
	}
	return true
}

// canonicalFields lowercases headings, joins words with underscores and
// applies the schema's column replacements.
func canonicalFields(header []string, replacements map[string]string) []string {
	fields := make([]string, len(header))
	for i, h := range header {
		f := strings.ReplaceAll(strings.ToLower(h), " ", "_")
		if mapped, ok := replacements[f]; ok {
			f = mapped
		}
		fields[i] = f
	}
	return fields
}

func zipRow(fields, row []string) map[string]string {
	record := make(map[string]string, len(fields))
	for i, f := range fields {
		if i < len(row) {
			record[f] = strings.TrimSpace(row[i])
		} else {
			record[f] = ""
		}
	}
	return record
}

func missingFields(record map[string]string, required []string) []string {
	var missing []string
	for _, f := range required {
		if record[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// missingFieldsError formats the dashboard wording: "Required field User id
// is missing at row 4", with ", " and a final " and " between several names.
func missingFieldsError(missing []string, mobile bool, rowNum int) error {
	names := make([]string, len(missing))
	for i, f := range missing {
		if mobile {
			switch f {
			case "user_id":
				f = "mobile_no"
			case "password":
				f = "pin"
			}
		}
		names[i] = capitalize(strings.ReplaceAll(f, "_", " "))
	}

	noun, verb := "field", "is"
	formatted := names[0]
	if len(names) > 1 {
		noun, verb = "fields", "are"
		formatted = strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
	return csvErrorf("Required %s %s %s missing at row %d", noun, formatted, verb, rowNum)
}

// validMobileNumber accepts exactly ten digits starting with 6 through 9.
func validMobileNumber(number string) bool {
	if len(number) != 10 {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return number[0] >= '6' && number[0] <= '9'
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func titleCase(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func headingsFor(fields []string) []string {
	headings := make([]string, len(fields))
	for i, f := range fields {
		headings[i] = titleCase(f)
	}
	return headings
}

func optional(record map[string]string, field string) *string {
	if v, ok := record[field]; ok && v != "" {
		return &v
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

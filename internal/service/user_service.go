package service

import (
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
)

var ErrUserExists = errors.New("user already exists")

type UserService interface {
	ListLearners(orgID uint) ([]dto.UserResponse, error)
	// CreateUser creates a single learner, reviving a soft-deleted row
	// carrying the same identifier.
	CreateUser(orgID, createdByID uint, req dto.CreateUserRequest) (*dto.UserResponse, error)
	// DeleteUsers soft-deletes, so identifiers can be reissued later.
	DeleteUsers(orgID uint, req dto.BulkDeleteUsersRequest) error
	AssignModules(orgID uint, req dto.AssignModulesRequest) error
	UnassignModules(req dto.AssignModulesRequest) error
}

type userService struct {
	userRepo           repository.UserRepository
	orgRepo            repository.OrganizationRepository
	moduleRepo         repository.ModuleRepository
	moduleActivityRepo repository.ModuleActivityRepository
	now                func() time.Time
}

func NewUserService(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	moduleRepo repository.ModuleRepository,
	moduleActivityRepo repository.ModuleActivityRepository,
) UserService {
	return &userService{
		userRepo:           userRepo,
		orgRepo:            orgRepo,
		moduleRepo:         moduleRepo,
		moduleActivityRepo: moduleActivityRepo,
		now:                time.Now,
	}
}

func (s *userService) ListLearners(orgID uint) ([]dto.UserResponse, error) {
	users, err := s.userRepo.ListLearners(orgID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		var resp dto.UserResponse
		if err := copier.Copy(&resp, &users[i]); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *userService) CreateUser(orgID, createdByID uint, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(req.FirstName) + strings.ToLower(req.UserID) +
		"@" + strings.ToLower(strings.ReplaceAll(org.Name, " ", "-")) + ".com"
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		UserID:         req.UserID,
		Designation:    req.Designation,
		Department:     req.Department,
		WorkLocation:   req.WorkLocation,
		AccessType:     model.AccessLearner,
		Email:          &email,
		Password:       string(hashed),
		Active:         true,
		OrganizationID: &org.ID,
		CreatedByID:    &createdByID,
	}
	if err := upsertLearner(s.userRepo, user, orgID, req.UserID); err != nil {
		var csvErr *CSVError
		if errors.As(err, &csvErr) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *userService) DeleteUsers(orgID uint, req dto.BulkDeleteUsersRequest) error {
	return s.userRepo.SoftDeleteByIDs(orgID, req.UserIDs)
}

// AssignModules creates assignments for the given users, skipping pairs that
// already have a live assignment.
func (s *userService) AssignModules(orgID uint, req dto.AssignModulesRequest) error {
	attrs, err := s.moduleRepo.FindAttributesByID(req.ModuleID)
	if err != nil {
		return err
	}
	if attrs.OrganizationID != orgID {
		return errors.New("module does not belong to the organization")
	}

	for _, userID := range req.UserIDs {
		if _, err := s.moduleActivityRepo.FindActive(userID, attrs.ID); err == nil {
			continue
		}
		activity := &model.ModuleActivity{
			UserID:     userID,
			ModuleID:   attrs.ID,
			AssignedOn: s.now(),
			Active:     true,
		}
		if err := s.moduleActivityRepo.Create(activity); err != nil {
			return err
		}
	}
	log.Info().Uint("module_id", req.ModuleID).Int("users", len(req.UserIDs)).Msg("modules assigned")
	return nil
}

// UnassignModules flips the live assignments inactive; history stays.
func (s *userService) UnassignModules(req dto.AssignModulesRequest) error {
	for _, userID := range req.UserIDs {
		if err := s.moduleActivityRepo.Deactivate(userID, req.ModuleID); err != nil {
			return err
		}
	}
	return nil
}

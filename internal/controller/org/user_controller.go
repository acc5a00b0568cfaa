package org

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/middleware"
	"github.com/skillsim/apiserver/internal/service"
)

// UserController covers an organization's learner roster: listing, single
// create, bulk delete, CSV import/update and the template/export downloads.
type UserController struct {
	userSvc service.UserService
	csvSvc  service.UserCSVService
}

func NewUserController(userSvc service.UserService, csvSvc service.UserCSVService) *UserController {
	return &UserController{userSvc: userSvc, csvSvc: csvSvc}
}

// ListUsersHandler godoc
// @Summary List the organization's learners
// @Tags org - users
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/users [get]
func (ctrl *UserController) ListUsersHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	users, err := ctrl.userSvc.ListLearners(orgID)
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to list learners")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUserHandler godoc
// @Summary Create a single learner
// @Description Creates a learner in the caller's organization. A soft-deleted learner carrying the same user id is revived instead.
// @Tags org - users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "Learner data"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "A live learner with that user id already exists"
// @Router /org/users [post]
func (ctrl *UserController) CreateUserHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}
	claims, _ := middleware.GetClaims(c)

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := ctrl.userSvc.CreateUser(orgID, claims.UserID, req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "User already exists"})
			return
		}
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteUsersHandler godoc
// @Summary Bulk delete learners
// @Description Soft-deletes the given learners so their identifiers can be reissued later.
// @Tags org - users
// @Accept json
// @Produce json
// @Param request body dto.BulkDeleteUsersRequest true "User ids to delete"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/users [delete]
func (ctrl *UserController) DeleteUsersHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	var req dto.BulkDeleteUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.userSvc.DeleteUsers(orgID, req); err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to delete users")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete users"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Users deleted"})
}

// ImportUsersHandler godoc
// @Summary Import learners from CSV
// @Description Creates learners from an uploaded CSV in the organization's template. The whole file is applied in one transaction; any invalid row rolls everything back.
// @Tags org - users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file in the downloaded template format"
// @Success 200 {object} dto.CSVImportResult
// @Failure 400 {object} dto.ErrorResponse "Missing file or unreadable upload"
// @Router /org/users/import [post]
func (ctrl *UserController) ImportUsersHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}
	claims, _ := middleware.GetClaims(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "A CSV file upload named 'file' is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read the uploaded file"})
		return
	}
	defer file.Close()

	result, err := ctrl.csvSvc.ImportUsers(orgID, claims.UserID, file)
	if err != nil {
		var csvErr *service.CSVError
		if errors.As(err, &csvErr) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: csvErr.Message})
			return
		}
		log.Error().Err(err).Uint("org_id", orgID).Msg("CSV import failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to import users"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateUsersHandler godoc
// @Summary Update learners from CSV
// @Description Applies per-row field updates keyed by the identifier column. Rows already applied stay applied when a later row fails.
// @Tags org - users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file in the update template format"
// @Success 200 {object} dto.CSVImportResult
// @Failure 400 {object} dto.ErrorResponse "Missing file or unreadable upload"
// @Router /org/users/update [post]
func (ctrl *UserController) UpdateUsersHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "A CSV file upload named 'file' is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read the uploaded file"})
		return
	}
	defer file.Close()

	result, err := ctrl.csvSvc.UpdateUsers(orgID, file)
	if err != nil {
		var csvErr *service.CSVError
		if errors.As(err, &csvErr) {
			// Rows applied before the failing one stay applied; report both.
			c.JSON(http.StatusBadRequest, gin.H{"error": csvErr.Message, "result": result})
			return
		}
		log.Error().Err(err).Uint("org_id", orgID).Msg("CSV update failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update users"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// TemplateHandler godoc
// @Summary Download a CSV template
// @Description Returns the create or update CSV template of the caller's organization, including the instruction rows of the mobile-identifier variant.
// @Tags org - users
// @Produce text/csv
// @Param mode query string true "Template mode" Enums(create, update)
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} dto.ErrorResponse "Unknown mode"
// @Router /org/users/template [get]
func (ctrl *UserController) TemplateHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	mode := c.DefaultQuery("mode", "create")
	filename, content, err := ctrl.csvSvc.Template(orgID, mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", content)
}

// ExportUsersHandler godoc
// @Summary Export learners as CSV
// @Tags org - users
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/users/export [get]
func (ctrl *UserController) ExportUsersHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	filename, content, err := ctrl.csvSvc.ExportUsers(orgID)
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("CSV export failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to export users"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", content)
}

// AssignModulesHandler godoc
// @Summary Assign a module to learners
// @Description Creates module assignments, skipping learners who already carry a live assignment of the module.
// @Tags org - modules
// @Accept json
// @Produce json
// @Param request body dto.AssignModulesRequest true "Module id and user ids"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or module not in this organization"
// @Router /org/modules/assign [post]
func (ctrl *UserController) AssignModulesHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	var req dto.AssignModulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.userSvc.AssignModules(orgID, req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Modules assigned"})
}

// UnassignModulesHandler godoc
// @Summary Unassign a module from learners
// @Description Flips the live assignments inactive; attempt history is kept.
// @Tags org - modules
// @Accept json
// @Produce json
// @Param request body dto.AssignModulesRequest true "Module id and user ids"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/modules/unassign [post]
func (ctrl *UserController) UnassignModulesHandler(c *gin.Context) {
	if _, ok := resolveOrg(c); !ok {
		return
	}

	var req dto.AssignModulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.userSvc.UnassignModules(req); err != nil {
		log.Error().Err(err).Msg("Failed to unassign modules")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to unassign modules"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Modules unassigned"})
}

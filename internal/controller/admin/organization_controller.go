package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
)

// OrganizationController is the platform operator's surface for managing
// customer organizations. The per-organization analytics live on the org
// routes, which operators reach through the org_id query parameter.
type OrganizationController struct {
	orgRepo repository.OrganizationRepository
}

func NewOrganizationController(orgRepo repository.OrganizationRepository) *OrganizationController {
	return &OrganizationController{orgRepo: orgRepo}
}

// ListOrganizationsHandler godoc
// @Summary (Admin) List all organizations
// @Tags admin - organizations
// @Produce json
// @Success 200 {array} dto.OrganizationResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/organizations [get]
func (ctrl *OrganizationController) ListOrganizationsHandler(c *gin.Context) {
	orgs, err := ctrl.orgRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list organizations")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve organizations"})
		return
	}

	out := make([]dto.OrganizationResponse, 0, len(orgs))
	for i := range orgs {
		var resp dto.OrganizationResponse
		if err := copier.Copy(&resp, &orgs[i]); err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to map organizations"})
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

// GetOrganizationHandler godoc
// @Summary (Admin) Get one organization
// @Tags admin - organizations
// @Produce json
// @Param id path int true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Organization not found"
// @Router /admin/organizations/{id} [get]
func (ctrl *OrganizationController) GetOrganizationHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid organization ID format"})
		return
	}

	org, err := ctrl.orgRepo.FindByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Organization not found"})
		return
	}

	var resp dto.OrganizationResponse
	if err := copier.Copy(&resp, org); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to map organization"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateOrganizationHandler godoc
// @Summary (Admin) Create an organization
// @Description Registers a customer organization with its license window.
// @Tags admin - organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization data"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or duplicate slug"
// @Router /admin/organizations [post]
func (ctrl *OrganizationController) CreateOrganizationHandler(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if _, err := ctrl.orgRepo.FindBySlug(req.Slug); err == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "An organization with that slug already exists"})
		return
	}

	org := model.Organization{
		Name:      req.Name,
		Logo:      req.Logo,
		Slug:      req.Slug,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := ctrl.orgRepo.Create(&org); err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("Failed to create organization")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create organization"})
		return
	}

	var resp dto.OrganizationResponse
	if err := copier.Copy(&resp, &org); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to map organization"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

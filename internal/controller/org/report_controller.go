package org

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/repository"
	"github.com/skillsim/apiserver/internal/service"
)

// ReportController serves the organization dashboard's analytics: completion
// rates, trends, usage rollups and the attempt reports.
type ReportController struct {
	completionSvc service.CompletionService
	trendSvc      service.TrendService
	usageSvc      service.UsageService
	reportSvc     service.ReportService
	moduleRepo    repository.ModuleRepository
	now           func() time.Time
}

func NewReportController(
	completionSvc service.CompletionService,
	trendSvc service.TrendService,
	usageSvc service.UsageService,
	reportSvc service.ReportService,
	moduleRepo repository.ModuleRepository,
) *ReportController {
	return &ReportController{
		completionSvc: completionSvc,
		trendSvc:      trendSvc,
		usageSvc:      usageSvc,
		reportSvc:     reportSvc,
		moduleRepo:    moduleRepo,
		now:           time.Now,
	}
}

// ListModulesHandler godoc
// @Summary List the organization's module configurations
// @Tags org - modules
// @Produce json
// @Success 200 {array} model.ModuleAttributes
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/modules [get]
func (ctrl *ReportController) ListModulesHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	attrs, err := ctrl.moduleRepo.ListAttributesByOrg(orgID)
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to list modules")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve modules"})
		return
	}
	c.JSON(http.StatusOK, attrs)
}

// CompletionReportHandler godoc
// @Summary Module completion snapshot
// @Description Module-wise completion rates with previous-month deltas and the month-by-month series since the organization was created.
// @Tags org - reports
// @Produce json
// @Success 200 {object} service.ModuleCompletionReport
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/reports/completion [get]
func (ctrl *ReportController) CompletionReportHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	report, err := ctrl.completionSvc.Report(orgID)
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to build completion report")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to build completion report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// MonthlyTrendHandler godoc
// @Summary Monthly completion trend
// @Description Completion velocity of the given month against the backlog carried over from the previous month.
// @Tags org - reports
// @Produce json
// @Param module query string false "Module name; all modules when absent"
// @Param month query int false "Month 1-12, defaults to the current month"
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} dto.TrendPoint
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/reports/trend/monthly [get]
func (ctrl *ReportController) MonthlyTrendHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	now := ctrl.now()
	month := queryInt(c, "month", int(now.Month()))
	year := queryInt(c, "year", now.Year())
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "month must be between 1 and 12"})
		return
	}
	ref := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	trend, err := ctrl.trendSvc.MonthlyTrend(orgID, c.Query("module"), ref)
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to compute monthly trend")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute trend"})
		return
	}
	c.JSON(http.StatusOK, dto.TrendPoint{Label: ref.Month().String(), Value: trend})
}

// QuarterlyTrendHandler godoc
// @Summary Quarterly completion trends
// @Description Quarter-labelled trends of the given year, populated up to the reference quarter.
// @Tags org - reports
// @Produce json
// @Param module query string false "Module name; all modules when absent"
// @Param quarter query int false "Quarter 1-4, defaults to the current quarter"
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} map[string]float64
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/reports/trend/quarterly [get]
func (ctrl *ReportController) QuarterlyTrendHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	now := ctrl.now()
	quarter := queryInt(c, "quarter", service.QuarterOf(now.Month()))
	year := queryInt(c, "year", now.Year())
	if quarter < 1 || quarter > 4 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "quarter must be between 1 and 4"})
		return
	}
	// The last month of the requested quarter anchors the reference date.
	ref := time.Date(year, time.Month(quarter*3), 1, 0, 0, 0, 0, time.UTC)

	trends, err := ctrl.trendSvc.QuarterlyTrends(orgID, c.Query("module"), ref)
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to compute quarterly trends")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute trends"})
		return
	}
	c.JSON(http.StatusOK, trends)
}

// ModuleUsageHandler godoc
// @Summary Per-module simulator usage
// @Description Logged simulator seconds per module over the windows all, 1m, 6m and 1y.
// @Tags org - reports
// @Produce json
// @Success 200 {object} map[string][]dto.ModuleUsageResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/reports/usage/modules [get]
func (ctrl *ReportController) ModuleUsageHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	usage, err := ctrl.usageSvc.ModuleUsage(orgID)
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to compute module usage")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute usage"})
		return
	}
	c.JSON(http.StatusOK, usage)
}

// OrganizationUsageHandler godoc
// @Summary Organization-wide simulator usage
// @Description Monthly, quarterly and yearly duration rollups since the organization came online.
// @Tags org - reports
// @Produce json
// @Success 200 {object} service.OrganizationUsage
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/reports/usage/organization [get]
func (ctrl *ReportController) OrganizationUsageHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	usage, err := ctrl.usageSvc.OrganizationUsage(orgID)
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to compute organization usage")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute usage"})
		return
	}
	c.JSON(http.StatusOK, usage)
}

// AttemptReportHandler godoc
// @Summary Attempt-wise report for one learner
// @Description Attempts, time spent, completed levels and a merged mistakes table over a named window.
// @Tags org - reports
// @Accept json
// @Produce json
// @Param request body dto.AttemptReportRequest true "User id and window (custom_range needs start_date and end_date)"
// @Success 200 {object} dto.AttemptReportResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or window"
// @Router /org/reports/attempts [post]
func (ctrl *ReportController) AttemptReportHandler(c *gin.Context) {
	if _, ok := resolveOrg(c); !ok {
		return
	}

	var req dto.AttemptReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	report, err := ctrl.reportSvc.AttemptWiseReport(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// LatestAttemptsHandler godoc
// @Summary Latest attempts across the organization
// @Tags org - reports
// @Produce json
// @Param limit query int false "Row limit, defaults to 15"
// @Success 200 {array} dto.LatestAttemptResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /org/reports/latest-attempts [get]
func (ctrl *ReportController) LatestAttemptsHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}

	attempts, err := ctrl.reportSvc.LatestAttempts(orgID, queryInt(c, "limit", 0))
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Msg("Failed to list latest attempts")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve attempts"})
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// AssignedUsersHandler godoc
// @Summary Per-module learner performance
// @Description Everyone assigned the module configuration with completion state and level progress, most progressed first.
// @Tags org - reports
// @Produce json
// @Param id path int true "Module configuration ID"
// @Success 200 {array} dto.AssignedUserPerformance
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or module not in this organization"
// @Router /org/reports/modules/{id}/users [get]
func (ctrl *ReportController) AssignedUsersHandler(c *gin.Context) {
	orgID, ok := resolveOrg(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid module ID format"})
		return
	}

	users, err := ctrl.reportSvc.AssignedUsers(orgID, uint(id))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// LevelAttemptDataHandler godoc
// @Summary Chart data of every attempt at a level
// @Description Renders the stored telemetry of each attempt into the dashboard's chart structures.
// @Tags org - reports
// @Produce json
// @Param id path int true "Level activity ID"
// @Success 200 {array} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Level activity not found"
// @Router /org/reports/level-activities/{id}/attempts [get]
func (ctrl *ReportController) LevelAttemptDataHandler(c *gin.Context) {
	if _, ok := resolveOrg(c); !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid level activity ID format"})
		return
	}

	rows, err := ctrl.reportSvc.LevelAttemptData(uint(id))
	if err != nil {
		log.Error().Err(err).Uint64("level_activity_id", id).Msg("Failed to render attempt data")
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Level activity not found or error rendering it"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	s := c.Query(name)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

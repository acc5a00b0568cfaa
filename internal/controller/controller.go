package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsim/apiserver/internal/controller/admin"
	"github.com/skillsim/apiserver/internal/controller/org"
	"github.com/skillsim/apiserver/internal/middleware"
	"github.com/skillsim/apiserver/internal/service"
)

type Controller struct {
	authSvc     service.AuthService
	authCtrl    *AuthController
	attemptCtrl *AttemptController
	userCtrl    *org.UserController
	reportCtrl  *org.ReportController
	orgCtrl     *admin.OrganizationController
}

func NewController(
	authSvc service.AuthService,
	authCtrl *AuthController,
	attemptCtrl *AttemptController,
	userCtrl *org.UserController,
	reportCtrl *org.ReportController,
	orgCtrl *admin.OrganizationController,
) *Controller {
	return &Controller{
		authSvc:     authSvc,
		authCtrl:    authCtrl,
		attemptCtrl: attemptCtrl,
		userCtrl:    userCtrl,
		reportCtrl:  reportCtrl,
		orgCtrl:     orgCtrl,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")

	auth := apiV1.Group("/auth")
	{
		auth.POST("/dashboard/login", ctrl.authCtrl.DashboardLoginHandler)
		auth.POST("/app/login", ctrl.authCtrl.AppLoginHandler)
		auth.POST("/refresh", ctrl.authCtrl.RefreshHandler)
		auth.POST("/forgot-password", ctrl.authCtrl.ForgotPasswordHandler)
		auth.POST("/reset-password", ctrl.authCtrl.ResetPasswordHandler)
	}

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.Authenticate(ctrl.authSvc))
	{
		// Simulator clients post finished attempts here.
		attempts := authenticated.Group("/attempts")
		attempts.Use(middleware.RequireLearner())
		attempts.POST("", ctrl.attemptCtrl.IngestHandler)

		orgGroup := authenticated.Group("/org")
		orgGroup.Use(middleware.RequireOrgStaff())
		{
			users := orgGroup.Group("/users")
			users.GET("", ctrl.userCtrl.ListUsersHandler)
			users.POST("", ctrl.userCtrl.CreateUserHandler)
			users.DELETE("", ctrl.userCtrl.DeleteUsersHandler)
			users.POST("/import", ctrl.userCtrl.ImportUsersHandler)
			users.POST("/update", ctrl.userCtrl.UpdateUsersHandler)
			users.GET("/template", ctrl.userCtrl.TemplateHandler)
			users.GET("/export", ctrl.userCtrl.ExportUsersHandler)

			modules := orgGroup.Group("/modules")
			modules.GET("", ctrl.reportCtrl.ListModulesHandler)
			modules.POST("/assign", ctrl.userCtrl.AssignModulesHandler)
			modules.POST("/unassign", ctrl.userCtrl.UnassignModulesHandler)

			reports := orgGroup.Group("/reports")
			reports.GET("/completion", ctrl.reportCtrl.CompletionReportHandler)
			reports.GET("/trend/monthly", ctrl.reportCtrl.MonthlyTrendHandler)
			reports.GET("/trend/quarterly", ctrl.reportCtrl.QuarterlyTrendHandler)
			reports.GET("/usage/modules", ctrl.reportCtrl.ModuleUsageHandler)
			reports.GET("/usage/organization", ctrl.reportCtrl.OrganizationUsageHandler)
			reports.POST("/attempts", ctrl.reportCtrl.AttemptReportHandler)
			reports.GET("/latest-attempts", ctrl.reportCtrl.LatestAttemptsHandler)
			reports.GET("/modules/:id/users", ctrl.reportCtrl.AssignedUsersHandler)
			reports.GET("/level-activities/:id/attempts", ctrl.reportCtrl.LevelAttemptDataHandler)
		}

		adminGroup := authenticated.Group("/admin")
		adminGroup.Use(middleware.RequirePlatformAdmin())
		{
			adminGroup.GET("/organizations", ctrl.orgCtrl.ListOrganizationsHandler)
			adminGroup.POST("/organizations", ctrl.orgCtrl.CreateOrganizationHandler)
			adminGroup.GET("/organizations/:id", ctrl.orgCtrl.GetOrganizationHandler)
		}
	}
}

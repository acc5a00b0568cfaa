package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/skillsim/apiserver/config"
	"github.com/skillsim/apiserver/database"
	_ "github.com/skillsim/apiserver/docs"
	"github.com/skillsim/apiserver/internal/controller"
	"github.com/skillsim/apiserver/internal/controller/admin"
	"github.com/skillsim/apiserver/internal/controller/org"
	"github.com/skillsim/apiserver/internal/logger"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
	"github.com/skillsim/apiserver/internal/service"
)

// @title Training Simulation Analytics API
// @version 1.0
// @description Backend for VR training simulators: learner management, attempt telemetry ingestion and the organization analytics dashboards.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewScoringConfig,
		),

		fx.Provide(
			repository.NewOrganizationRepository,
			repository.NewUserRepository,
			repository.NewModuleRepository,
			repository.NewModuleActivityRepository,
			repository.NewLevelActivityRepository,
			repository.NewAttemptRepository,
			repository.NewUserActivityRepository,
			repository.NewPasswordResetTokenRepository,
		),

		fx.Provide(
			service.NewAuthService,
			service.NewUserService,
			service.NewUserCSVService,
			service.NewAttemptService,
			service.NewCompletionService,
			service.NewTrendService,
			service.NewUsageService,
			service.NewGraphService,
			service.NewReportService,
		),

		fx.Provide(
			controller.NewAuthController,
			controller.NewAttemptController,
			org.NewUserController,
			org.NewReportController,
			admin.NewOrganizationController,
			controller.NewController,
		),

		fx.Invoke(StartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down")
}

// NewScoringConfig loads the scoring tables named by the config, falling back
// to the compiled-in defaults when no file is configured.
func NewScoringConfig(cfg *config.Config) (*service.ScoringConfig, error) {
	return service.LoadScoringConfig(cfg.Scoring.File)
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer registers the API routes and ties the HTTP server to the fx
// lifecycle.
func StartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	ctrl *controller.Controller,
) {
	ctrl.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Str("port", cfg.Server.Port).Msg("API server starting")
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations")
	err := db.AutoMigrate(
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
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed")
	return nil
}

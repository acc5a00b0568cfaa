package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/service"
)

type AttemptController struct {
	attemptSvc service.AttemptService
}

func NewAttemptController(attemptSvc service.AttemptService) *AttemptController {
	return &AttemptController{attemptSvc: attemptSvc}
}

// IngestHandler godoc
// @Summary Ingest a simulator attempt
// @Description Accepts the raw telemetry payload of one finished attempt, scores it where a scoring family applies and updates level and module completion.
// @Tags attempts
// @Accept json
// @Produce json
// @Param payload body object true "Raw simulator telemetry"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed payload or unknown user/module"
// @Router /attempts [post]
func (ctrl *AttemptController) IngestHandler(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn().Err(err).Msg("Failed to bind attempt payload")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.attemptSvc.Ingest(payload); err != nil {
		log.Error().Err(err).Msg("Failed to ingest attempt")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Attempt recorded"})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyhub-app/studyhub-api/internal/models"
	"github.com/studyhub-app/studyhub-api/internal/service"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
	"github.com/studyhub-app/studyhub-api/pkg/response"
)

// ProgressHandler wires progress statistics endpoints to the progress service.
type ProgressHandler struct {
	service *service.ProgressService
}

// NewProgressHandler creates a new handler.
func NewProgressHandler(svc *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: svc}
}

// Stats godoc
// @Summary Get progress statistics
// @Description Aggregate study and quiz activity over a week, month or year window
// @Tags Progress
// @Produce json
// @Param period query string false "week, month or year" default(week)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /progress/stats [get]
// @Security BearerAuth
func (h *ProgressHandler) Stats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	period := models.StatsPeriod(c.Query("period"))
	stats, err := h.service.Stats(c.Request.Context(), claims.UserID, period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}

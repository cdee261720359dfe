package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mindnest/wellness/internal/usecase/insights"
	"github.com/mindnest/wellness/pkg/response"
)

// InsightsHandler handles insight requests
type InsightsHandler struct {
	insightsUseCase insights.UseCase
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightsUseCase insights.UseCase) *InsightsHandler {
	return &InsightsHandler{insightsUseCase: insightsUseCase}
}

// Get godoc
// @Summary Get mood insights over a recent window
// @Tags insights
// @Security BearerAuth
// @Produce json
// @Param days query int false "Window in days, 7 to 365" default(30)
// @Success 200 {object} response.Response{data=insights.Insights}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/insights [get]
func (h *InsightsHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.ValidationError(c, "days must be a number")
			return
		}
		days = parsed
	}

	result, err := h.insightsUseCase.Get(c.Request.Context(), userID.String(), days)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, result)
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autoigdm/api/pkg/analytics"
	"github.com/autoigdm/api/pkg/api/errors"
)

// AnalyticsHandler handles analytics endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetSummary godoc
// @Summary Dashboard summary
// @Description Campaign, lead and message totals with the five newest campaigns
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AnalyticsSummary
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /analytics [get]
func (h *AnalyticsHandler) GetSummary(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	summary, err := h.analyticsService.Summary(ctx, userID)
	if err != nil {
		return errors.DatabaseError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

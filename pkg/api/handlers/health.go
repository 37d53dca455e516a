package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autoigdm/api/pkg/models"
)

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
	})
}

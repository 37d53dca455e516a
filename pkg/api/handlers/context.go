package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// requestTimeout bounds store work per request. Campaign creation and
// activation wait on text generation and get activationTimeout.
const (
	requestTimeout    = 5 * time.Second
	activationTimeout = 60 * time.Second
)

// currentUserID returns the user ID set by the JWT middleware
func currentUserID(c echo.Context) (string, bool) {
	userID, ok := c.Get("user_id").(string)
	return userID, ok && userID != ""
}

func requestContext(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), timeout)
}

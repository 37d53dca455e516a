package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/autoigdm/api/pkg/accounts"
	"github.com/autoigdm/api/pkg/api/errors"
	"github.com/autoigdm/api/pkg/models"
)

// InstagramHandler handles the demo Instagram account endpoints
type InstagramHandler struct {
	accountService *accounts.Service
	validator      *validator.Validate
}

// NewInstagramHandler creates a new Instagram account handler
func NewInstagramHandler(accountService *accounts.Service) *InstagramHandler {
	return &InstagramHandler{
		accountService: accountService,
		validator:      validator.New(),
	}
}

// ListAccounts godoc
// @Summary List Instagram accounts
// @Tags Instagram
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.InstagramAccount
// @Router /instagram [get]
func (h *InstagramHandler) ListAccounts(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	list, err := h.accountService.List(ctx, userID)
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// CreateAccount godoc
// @Summary Add a demo Instagram account
// @Tags Instagram
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateInstagramAccountRequest true "Account"
// @Success 201 {object} models.InstagramAccount
// @Failure 400 {object} models.ErrorResponse
// @Router /instagram [post]
func (h *InstagramHandler) CreateAccount(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	var req models.CreateInstagramAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	account, err := h.accountService.Create(ctx, userID, req)
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusCreated, account)
}

// DeleteAccount godoc
// @Summary Remove an Instagram account
// @Tags Instagram
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /instagram/{id} [delete]
func (h *InstagramHandler) DeleteAccount(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	if err := h.accountService.Delete(ctx, userID, c.Param("id")); err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Account deleted successfully"})
}

package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/autoigdm/api/pkg/api/errors"
	"github.com/autoigdm/api/pkg/campaigns"
	"github.com/autoigdm/api/pkg/models"
)

// CampaignHandler handles campaign endpoints
type CampaignHandler struct {
	campaignService *campaigns.Service
	validator       *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *campaigns.Service) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		validator:       validator.New(),
	}
}

// ListCampaigns godoc
// @Summary List campaigns
// @Description Returns the user's campaigns newest first with their Instagram account embedded
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Campaign
// @Router /campaigns [get]
func (h *CampaignHandler) ListCampaigns(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	list, err := h.campaignService.List(ctx, userID)
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// GetCampaign godoc
// @Summary Get a campaign
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.Campaign
// @Failure 404 {object} models.ErrorResponse "Campaign not found"
// @Router /campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	campaign, err := h.campaignService.Get(ctx, userID, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, campaign)
}

// ListLeads godoc
// @Summary List a campaign's leads
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {array} models.Lead
// @Failure 404 {object} models.ErrorResponse "Campaign not found"
// @Router /campaigns/{id}/leads [get]
func (h *CampaignHandler) ListLeads(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	list, err := h.campaignService.ListLeads(ctx, userID, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// ListMessages godoc
// @Summary List a campaign's messages
// @Description Newest first, each with its lead embedded
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {array} models.Message
// @Failure 404 {object} models.ErrorResponse "Campaign not found"
// @Router /campaigns/{id}/messages [get]
func (h *CampaignHandler) ListMessages(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	list, err := h.campaignService.ListMessages(ctx, userID, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// CreateCampaign godoc
// @Summary Create a campaign
// @Description Drafts the opening message and adds three demo leads
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCampaignRequest true "Campaign"
// @Success 201 {object} models.Campaign
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "Instagram account not found"
// @Router /campaigns [post]
func (h *CampaignHandler) CreateCampaign(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	var req models.CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx, cancel := requestContext(c, activationTimeout)
	defer cancel()

	campaign, err := h.campaignService.Create(ctx, userID, req)
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusCreated, campaign)
}

// ActivateCampaign godoc
// @Summary Activate a campaign
// @Description Marks the campaign active and drafts one message per demo lead
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.Campaign
// @Failure 400 {object} models.ErrorResponse "Campaign is already active"
// @Failure 404 {object} models.ErrorResponse "Campaign not found"
// @Router /campaigns/{id}/activate [post]
func (h *CampaignHandler) ActivateCampaign(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, activationTimeout)
	defer cancel()

	campaign, err := h.campaignService.Activate(ctx, userID, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, campaign)
}

// PauseCampaign godoc
// @Summary Pause a campaign
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.Campaign
// @Failure 404 {object} models.ErrorResponse "Campaign not found"
// @Router /campaigns/{id}/pause [post]
func (h *CampaignHandler) PauseCampaign(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	campaign, err := h.campaignService.Pause(ctx, userID, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign godoc
// @Summary Delete a campaign
// @Description Removes the campaign with its leads and messages
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse "Campaign not found"
// @Router /campaigns/{id} [delete]
func (h *CampaignHandler) DeleteCampaign(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	if err := h.campaignService.Delete(ctx, userID, c.Param("id")); err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Campaign deleted successfully"})
}

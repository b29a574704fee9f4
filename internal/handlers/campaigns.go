package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"mailroom/internal/apperrors"
	"mailroom/internal/intake"
	"mailroom/internal/models"
)

type CampaignManager interface {
	CreateCampaign(ctx context.Context, req intake.CampaignRequest) (*models.Campaign, error)
	SendCampaign(ctx context.Context, req intake.CampaignSendRequest) (*models.Campaign, error)
}

type CampaignHandler struct {
	campaigns CampaignManager
}

func NewCampaignHandler(campaigns CampaignManager) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

// Create creates a campaign
// @Summary Create a campaign
// @Tags campaigns
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param access_token query string true "Access token"
// @Success 200 {object} map[string]interface{} "{result: success, id}"
// @Failure 400 {object} ErrorResponse "Invalid campaign"
// @Failure 404 {object} ErrorResponse "Selected list not found"
// @Router /campaigns/create [post]
func (h *CampaignHandler) Create(c echo.Context) error {
	raw, err := bindRaw(c)
	if err != nil {
		return Fail(c, err, "")
	}

	req, err := intake.ParseCampaignRequest(intake.Normalize(raw), c)
	if err != nil {
		return Fail(c, err, "")
	}

	campaign, err := h.campaigns.CreateCampaign(c.Request().Context(), req)
	if err != nil {
		return Fail(c, err, "")
	}

	return Success(c, map[string]interface{}{"id": campaign.ID})
}

// Send schedules a campaign
// @Summary Send a campaign
// @Description Schedules the campaign for now plus delay-hours and delay-minutes. Negative or invalid delays count as zero.
// @Tags campaigns
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param access_token query string true "Access token"
// @Param id formData string true "Campaign id or cid"
// @Param delay-hours formData integer false "Hours to wait"
// @Param delay-minutes formData integer false "Minutes to wait"
// @Success 200 {object} map[string]interface{} "{result: success, id}"
// @Failure 404 {object} ErrorResponse "Campaign not found"
// @Failure 409 {object} ErrorResponse "Campaign is already sending"
// @Failure 500 {object} ErrorResponse "Email has not been send"
// @Router /campaigns/send [post]
func (h *CampaignHandler) Send(c echo.Context) error {
	raw, err := bindRaw(c)
	if err != nil {
		return Fail(c, err, "")
	}

	req, err := intake.ParseCampaignSendRequest(intake.Normalize(raw))
	if err != nil {
		return Fail(c, err, "")
	}

	campaign, err := h.campaigns.SendCampaign(c.Request().Context(), req)
	if err != nil {
		message := ""
		if apperrors.KindOf(err) == apperrors.KindInternal {
			message = "Email has not been send"
		}
		return Fail(c, err, message)
	}

	return Success(c, map[string]interface{}{"id": campaign.ID, "scheduledAt": campaign.ScheduledAt})
}

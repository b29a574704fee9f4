package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"mailroom/internal/intake"
	"mailroom/internal/utils"
)

// Intake is the subscription pipeline behind the subscriber endpoints.
type Intake interface {
	Subscribe(ctx context.Context, listCID string, raw intake.RawInput, origin intake.Origin) (*intake.SubscribeResult, error)
	Unsubscribe(ctx context.Context, listCID string, raw intake.RawInput) (*intake.UnsubscribeResult, error)
	Delete(ctx context.Context, listCID string, raw intake.RawInput) (*intake.DeleteResult, error)
	CreateField(ctx context.Context, listCID string, raw intake.RawInput) (*intake.FieldResult, error)
}

type SubscriptionHandler struct {
	intake Intake
}

func NewSubscriptionHandler(svc Intake) *SubscriptionHandler {
	return &SubscriptionHandler{intake: svc}
}

// Subscribe adds an address to a list
// @Summary Subscribe an address
// @Description Adds or updates a subscriber. Keys are case-insensitive; merge tags of the list's custom fields are accepted alongside EMAIL, FIRST_NAME, LAST_NAME, TIMEZONE, FORCE_SUBSCRIBE and REQUIRE_CONFIRMATION.
// @Tags subscriptions
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param listId path string true "List cid"
// @Param access_token query string true "Access token"
// @Success 200 {object} DataResponse "Subscription or confirmation id"
// @Failure 400 {object} ErrorResponse "Missing or invalid EMAIL"
// @Failure 403 {object} ErrorResponse "Missing or invalid access_token"
// @Failure 404 {object} ErrorResponse "Selected listId not found"
// @Failure 409 {object} ErrorResponse "Conflicting subscription"
// @Router /subscribe/{listId} [post]
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	raw, err := bindRaw(c)
	if err != nil {
		return Fail(c, err, "")
	}

	origin := intake.Origin{
		IP:        utils.GetIPAddress(c.Request()),
		UserAgent: c.Request().UserAgent(),
	}
	res, err := h.intake.Subscribe(c.Request().Context(), c.Param("listId"), raw, origin)
	if err != nil {
		return Fail(c, err, "")
	}
	return Data(c, res)
}

// Unsubscribe marks an address as unsubscribed
// @Summary Unsubscribe an address
// @Tags subscriptions
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param listId path string true "List cid"
// @Param access_token query string true "Access token"
// @Success 200 {object} DataResponse "{id, unsubscribed: true}"
// @Failure 400 {object} ErrorResponse "Missing EMAIL"
// @Failure 404 {object} ErrorResponse "Subscription not found"
// @Router /unsubscribe/{listId} [post]
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	raw, err := bindRaw(c)
	if err != nil {
		return Fail(c, err, "")
	}

	res, err := h.intake.Unsubscribe(c.Request().Context(), c.Param("listId"), raw)
	if err != nil {
		return Fail(c, err, "")
	}
	return Data(c, res)
}

// Delete removes a subscription
// @Summary Delete a subscription
// @Tags subscriptions
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param listId path string true "List cid"
// @Param access_token query string true "Access token"
// @Success 200 {object} DataResponse "{id, deleted: true}"
// @Failure 400 {object} ErrorResponse "Missing EMAIL"
// @Failure 404 {object} ErrorResponse "Subscription not found"
// @Router /delete/{listId} [post]
func (h *SubscriptionHandler) Delete(c echo.Context) error {
	raw, err := bindRaw(c)
	if err != nil {
		return Fail(c, err, "")
	}

	res, err := h.intake.Delete(c.Request().Context(), c.Param("listId"), raw)
	if err != nil {
		return Fail(c, err, "")
	}
	return Data(c, res)
}

// CreateField declares a custom field
// @Summary Create a custom field
// @Description NAME is required. TYPE defaults to text; option fields need a GROUP naming a group field of the same list.
// @Tags fields
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param listId path string true "List cid"
// @Param access_token query string true "Access token"
// @Success 200 {object} DataResponse "{id, tag}"
// @Failure 400 {object} ErrorResponse "Missing NAME or invalid TYPE/GROUP"
// @Failure 409 {object} ErrorResponse "Merge tag already in use"
// @Router /field/{listId} [post]
func (h *SubscriptionHandler) CreateField(c echo.Context) error {
	raw, err := bindRaw(c)
	if err != nil {
		return Fail(c, err, "")
	}

	res, err := h.intake.CreateField(c.Request().Context(), c.Param("listId"), raw)
	if err != nil {
		return Fail(c, err, "")
	}
	return Data(c, res)
}

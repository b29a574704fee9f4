package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"mailroom/internal/intake"
	"mailroom/internal/models"
)

type ListCreator interface {
	CreateList(ctx context.Context, req intake.ListRequest) (*models.List, error)
}

type ListHandler struct {
	lists ListCreator
}

func NewListHandler(lists ListCreator) *ListHandler {
	return &ListHandler{lists: lists}
}

// Create creates a mailing list
// @Summary Create a list
// @Tags lists
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param access_token query string true "Access token"
// @Param name formData string true "List name"
// @Param description formData string true "List description"
// @Success 200 {object} map[string]interface{} "{result: success, id, cid}"
// @Failure 400 {object} ErrorResponse "ensure add list name and description"
// @Failure 500 {object} ErrorResponse "Could not create list"
// @Router /lists/create [post]
func (h *ListHandler) Create(c echo.Context) error {
	raw, err := bindRaw(c)
	if err != nil {
		return Fail(c, err, "")
	}

	req, err := intake.ParseListRequest(intake.Normalize(raw))
	if err != nil {
		return Fail(c, err, "")
	}

	list, err := h.lists.CreateList(c.Request().Context(), req)
	if err != nil {
		return Fail(c, err, "Could not create list")
	}

	return Success(c, map[string]interface{}{"id": list.ID, "cid": list.CID})
}

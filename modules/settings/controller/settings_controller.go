package controller

import (
	"github.com/labstack/echo/v4"

	"schedbot/core/controller"
	"schedbot/core/errors"
	"schedbot/core/middleware"
	"schedbot/modules/settings/dto"
	"schedbot/modules/settings/service"
)

type SettingsController struct {
	service *service.SettingsService
	controller.BaseController
}

func NewSettingsController(service *service.SettingsService) *SettingsController {
	return &SettingsController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GetMySettings returns the caller's settings, creating defaults on first
// access.
func (c *SettingsController) GetMySettings(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	settings, err := c.service.GetOrCreate(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, settings, "Settings retrieved successfully")
}

// UpdateMySettings applies a partial settings update.
func (c *SettingsController) UpdateMySettings(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.UpdateSettingsRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	settings, err := c.service.Update(ctx.Request().Context(), userID, req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, settings, "Settings updated successfully")
}

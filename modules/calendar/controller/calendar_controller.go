package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"schedbot/core/controller"
	"schedbot/core/errors"
	"schedbot/core/middleware"
	"schedbot/modules/calendar/dto"
	"schedbot/modules/calendar/service"
)

type CalendarController struct {
	service *service.CalendarService
	controller.BaseController
}

func NewCalendarController(service *service.CalendarService) *CalendarController {
	return &CalendarController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *CalendarController) Create(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.CreateCalendarRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	calendar, err := c.service.Create(ctx.Request().Context(), userID, req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, calendar, "Calendar created successfully")
}

func (c *CalendarController) GetByID(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	calendarID, err := pathID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid calendar id")
	}

	calendar, err := c.service.GetByID(ctx.Request().Context(), userID, calendarID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, calendar, "Calendar retrieved successfully")
}

func (c *CalendarController) Find(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	filter := new(dto.CalendarFilter)
	if err := ctx.Bind(filter); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid filter parameters")
	}

	calendars, err := c.service.Find(ctx.Request().Context(), userID, filter)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, calendars, "Calendars retrieved successfully")
}

func (c *CalendarController) Update(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	calendarID, err := pathID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid calendar id")
	}

	req := new(dto.UpdateCalendarRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	calendar, err := c.service.Update(ctx.Request().Context(), userID, calendarID, req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, calendar, "Calendar updated successfully")
}

func (c *CalendarController) Delete(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	calendarID, err := pathID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid calendar id")
	}

	if err := c.service.Delete(ctx.Request().Context(), userID, calendarID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "Calendar deleted successfully")
}

func (c *CalendarController) Sync(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	calendarID, err := pathID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid calendar id")
	}

	result, err := c.service.Sync(ctx.Request().Context(), &userID, calendarID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, result, "Calendar synced successfully")
}

func pathID(ctx echo.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}

package controller

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"schedbot/core/controller"
	"schedbot/core/errors"
	"schedbot/core/middleware"
	"schedbot/core/params"
	"schedbot/modules/event/dto"
	"schedbot/modules/event/service"
)

type EventController struct {
	service *service.EventService
	controller.BaseController
}

func NewEventController(service *service.EventService) *EventController {
	return &EventController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func (c *EventController) Create(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.CreateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	event, err := c.service.Create(ctx.Request().Context(), userID, req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, event, "Event created successfully")
}

func (c *EventController) GetByID(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	eventID, err := pathID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id")
	}

	event, err := c.service.GetByID(ctx.Request().Context(), userID, eventID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, event, "Event retrieved successfully")
}

func (c *EventController) Update(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	eventID, err := pathID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id")
	}

	req := new(dto.UpdateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	event, err := c.service.Update(ctx.Request().Context(), userID, eventID, req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, event, "Event updated successfully")
}

func (c *EventController) Delete(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	eventID, err := pathID(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id")
	}

	if err := c.service.Delete(ctx.Request().Context(), userID, eventID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

func (c *EventController) Find(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	filter := new(dto.EventFilter)
	if err := ctx.Bind(filter); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid filter parameters")
	}
	qp := params.NewQueryParams(ctx)

	events, err := c.service.Find(ctx.Request().Context(), userID, filter, qp)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, events, "Events retrieved successfully")
}

// UpcomingReminders exposes the delivery window query: unsent reminders
// firing strictly inside (from, to).
func (c *EventController) UpcomingReminders(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	from, err := time.Parse(time.RFC3339, ctx.QueryParam("from"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid 'from' timestamp, expected RFC 3339")
	}
	to, err := time.Parse(time.RFC3339, ctx.QueryParam("to"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid 'to' timestamp, expected RFC 3339")
	}

	events, err := c.service.GetUpcomingForReminders(ctx.Request().Context(), userID, from, to)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, events, "Upcoming reminders retrieved successfully")
}

func pathID(ctx echo.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}

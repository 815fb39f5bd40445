package router

import (
	"github.com/labstack/echo/v4"

	"schedbot/core/middleware"
	"schedbot/modules/calendar/controller"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{controller: controller}
}

func (r *CalendarRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/calendars", mw.AuthMiddleware())
	group.POST("", r.controller.Create)
	group.GET("", r.controller.Find)
	group.GET("/:id", r.controller.GetByID)
	group.PATCH("/:id", r.controller.Update)
	group.DELETE("/:id", r.controller.Delete)
	group.POST("/:id/sync", r.controller.Sync)
}

package router

import (
	"github.com/labstack/echo/v4"

	"schedbot/core/middleware"
	"schedbot/modules/event/controller"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

func (r *EventRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/events", mw.AuthMiddleware())
	group.POST("", r.controller.Create)
	group.GET("", r.controller.Find)
	group.GET("/upcoming-reminders", r.controller.UpcomingReminders)
	group.GET("/:id", r.controller.GetByID)
	group.PATCH("/:id", r.controller.Update)
	group.DELETE("/:id", r.controller.Delete)
}

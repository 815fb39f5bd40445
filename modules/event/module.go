package event

import (
	"github.com/labstack/echo/v4"

	"schedbot/core/database"
	"schedbot/core/middleware"
	"schedbot/modules/event/controller"
	"schedbot/modules/event/router"
	"schedbot/modules/event/service"
)

func Init(e *echo.Group, db *database.Database, mw *middleware.Middleware) *service.EventService {
	svc := service.NewEventService(db)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Register(e, mw)

	return svc
}

package calendar

import (
	"github.com/labstack/echo/v4"

	"schedbot/core/database"
	"schedbot/core/middleware"
	"schedbot/modules/calendar/controller"
	"schedbot/modules/calendar/router"
	"schedbot/modules/calendar/service"
)

func Init(e *echo.Group, db *database.Database, mw *middleware.Middleware) *service.CalendarService {
	svc := service.NewCalendarService(db)
	ctrl := controller.NewCalendarController(svc)

	router.NewCalendarRouter(ctrl).Register(e, mw)

	return svc
}

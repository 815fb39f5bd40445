package settings

import (
	"github.com/labstack/echo/v4"

	"schedbot/core/database"
	"schedbot/core/middleware"
	"schedbot/modules/settings/controller"
	"schedbot/modules/settings/router"
	"schedbot/modules/settings/service"
)

func Init(e *echo.Group, db *database.Database, mw *middleware.Middleware) *service.SettingsService {
	svc := service.NewSettingsService(db)
	ctrl := controller.NewSettingsController(svc)

	router.NewSettingsRouter(ctrl).Register(e, mw)

	return svc
}

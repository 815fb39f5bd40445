package router

import (
	"github.com/labstack/echo/v4"

	"schedbot/core/middleware"
	"schedbot/modules/settings/controller"
)

type SettingsRouter struct {
	controller *controller.SettingsController
}

func NewSettingsRouter(controller *controller.SettingsController) *SettingsRouter {
	return &SettingsRouter{controller: controller}
}

func (r *SettingsRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/settings", mw.AuthMiddleware())
	group.GET("", r.controller.GetMySettings)
	group.PUT("", r.controller.UpdateMySettings)
}

package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"schedbot/core/config"
	"schedbot/core/database"
	"schedbot/core/logger"
	"schedbot/core/middleware"
	"schedbot/modules/calendar"
	calendarentity "schedbot/modules/calendar/entity"
	"schedbot/modules/event"
	evententity "schedbot/modules/event/entity"
	"schedbot/modules/settings"
	settingsentity "schedbot/modules/settings/entity"
	"schedbot/worker"
)

// schema lists every table in foreign-key order: calendars before events,
// events before reminders.
var schema = database.Schema{
	calendarentity.Table,
	evententity.Table,
	evententity.ReminderTable,
	settingsentity.Table,
}

// Run wires configuration, storage, the HTTP API and the periodic worker,
// then blocks until a shutdown signal arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.ApplySchema(ctx, schema); err != nil {
		return err
	}

	mw := middleware.New(cfg.Auth.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	e.Use(mw.RequestID())
	e.Use(echomw.Recover())

	api := e.Group("/api/v1")
	eventSvc := event.Init(api, db, mw)
	calendarSvc := calendar.Init(api, db, mw)
	settings.Init(api, db, mw)

	w, err := worker.New(cfg, eventSvc, calendarSvc)
	if err != nil {
		return err
	}
	go func() {
		if err := w.Run(); err != nil {
			logger.Error("server: worker stopped", err)
		}
	}()

	go func() {
		if err := e.Start(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server: http listener stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: worker shutdown", err)
	}
	return e.Shutdown(shutdownCtx)
}

package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"schedbot/core/config"
	"schedbot/core/logger"
	calendarservice "schedbot/modules/calendar/service"
	eventservice "schedbot/modules/event/service"
)

// Worker runs the periodic tasks: the reminder sweep, sent-reminder cleanup
// and calendar re-sync, scheduled by cron specs from the configuration.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	redis     *redis.Client
}

func New(cfg *config.Config, events *eventservice.EventService, calendars *calendarservice.CalendarService) (*Worker, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	handlers := NewHandlers(cfg, events, calendars, rdb)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSweep, handlers.HandleReminderSweep)
	mux.HandleFunc(TypeReminderCleanup, handlers.HandleReminderCleanup)
	mux.HandleFunc(TypeCalendarSync, handlers.HandleCalendarSync)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register(cfg.Worker.SweepSpec, NewReminderSweepTask()); err != nil {
		return nil, fmt.Errorf("register reminder sweep: %w", err)
	}
	if _, err := scheduler.Register(cfg.Worker.CleanupSpec, NewReminderCleanupTask()); err != nil {
		return nil, fmt.Errorf("register reminder cleanup: %w", err)
	}
	if _, err := scheduler.Register(cfg.Worker.SyncSpec, NewCalendarSyncTask()); err != nil {
		return nil, fmt.Errorf("register calendar sync: %w", err)
	}

	return &Worker{
		server:    server,
		scheduler: scheduler,
		mux:       mux,
		redis:     rdb,
	}, nil
}

// Run starts the scheduler and the task server and blocks until one fails.
func (w *Worker) Run() error {
	errCh := make(chan error, 2)
	go func() {
		errCh <- w.scheduler.Run()
	}()
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	err := <-errCh
	logger.Error("Worker:Run", err)
	return err
}

// Shutdown stops the task server, the scheduler and the redis connection.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.server.Shutdown()
	w.scheduler.Shutdown()
	return w.redis.Close()
}

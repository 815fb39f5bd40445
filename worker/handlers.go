package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"schedbot/core/config"
	"schedbot/core/constants"
	"schedbot/core/logger"
	calendarservice "schedbot/modules/calendar/service"
	evententity "schedbot/modules/event/entity"
	eventservice "schedbot/modules/event/service"
)

// Handlers hold the services the periodic tasks drive.
type Handlers struct {
	events    *eventservice.EventService
	calendars *calendarservice.CalendarService
	redis     *redis.Client
	window    time.Duration
}

func NewHandlers(cfg *config.Config, events *eventservice.EventService, calendars *calendarservice.CalendarService, rdb *redis.Client) *Handlers {
	return &Handlers{
		events:    events,
		calendars: calendars,
		redis:     rdb,
		window:    time.Duration(cfg.Worker.SweepWindowSeconds) * time.Second,
	}
}

// HandleReminderSweep finds reminders that came due inside the look-back
// window, publishes each to the reminder channel and marks it sent. Marking
// happens per event after a successful publish, so a failed publish leaves
// the reminder unsent for the next sweep.
func (h *Handlers) HandleReminderSweep(ctx context.Context, _ *asynq.Task) error {
	runID := uuid.NewString()
	now := time.Now().UTC()
	from := now.Add(-h.window)

	userIDs, err := h.events.ListUsersWithDueReminders(ctx, from, now)
	if err != nil {
		logger.Error("Worker:ReminderSweep", "run_id", runID, "error", err)
		return err
	}

	var published int
	for _, userID := range userIDs {
		events, err := h.events.GetUpcomingForReminders(ctx, userID, from, now)
		if err != nil {
			logger.Error("Worker:ReminderSweep", "run_id", runID, "user_id", userID, "error", err)
			return err
		}
		for _, event := range events {
			remindAt, err := evententity.ComputeRemindAt(event.DateStart, event.ReminderOffset)
			if err != nil {
				logger.Warn("Worker:ReminderSweep: unschedulable reminder", "run_id", runID, "event_id", event.ID, "error", err)
				continue
			}
			msg := DueReminder{
				EventID:   event.ID,
				UserID:    event.UserID,
				Title:     event.Title,
				DateStart: event.DateStart,
				RemindAt:  remindAt,
			}
			payload, err := msg.Marshal()
			if err != nil {
				return err
			}
			if err := h.redis.Publish(ctx, constants.ReminderChannel, payload).Err(); err != nil {
				logger.Error("Worker:ReminderSweep:Publish", "run_id", runID, "event_id", event.ID, "error", err)
				return err
			}
			if err := h.events.SetReminderSent(ctx, event.ID); err != nil {
				return err
			}
			published++
		}
	}

	logger.Info("Worker:ReminderSweep: done", "run_id", runID, "users", len(userIDs), "published", published)
	return nil
}

// HandleReminderCleanup purges reminders that were already delivered.
func (h *Handlers) HandleReminderCleanup(ctx context.Context, _ *asynq.Task) error {
	removed, err := h.events.CleanUpSentReminders(ctx)
	if err != nil {
		logger.Error("Worker:ReminderCleanup", err)
		return err
	}
	logger.Info("Worker:ReminderCleanup: done", "removed", removed)
	return nil
}

// HandleCalendarSync re-imports every sync-enabled calendar.
func (h *Handlers) HandleCalendarSync(ctx context.Context, _ *asynq.Task) error {
	if err := h.calendars.SyncAll(ctx); err != nil {
		logger.Error("Worker:CalendarSync", err)
		return err
	}
	logger.Info("Worker:CalendarSync: done")
	return nil
}

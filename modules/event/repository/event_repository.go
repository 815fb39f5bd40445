package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"schedbot/core/constants"
	"schedbot/core/database"
	apperrors "schedbot/core/errors"
	"schedbot/core/logger"
	"schedbot/modules/event/dto"
	"schedbot/modules/event/entity"
	settingsrepo "schedbot/modules/settings/repository"
)

// EventRepository owns events and their companion reminders. Every mutation
// that touches both tables runs on the same Session, so binding the
// repository to a UnitOfWork makes event+reminder changes atomic.
type EventRepository struct {
	db       database.Session
	settings *settingsrepo.SettingsRepository
}

func NewEventRepository(db database.Session) *EventRepository {
	return &EventRepository{
		db:       db,
		settings: settingsrepo.NewSettingsRepository(db),
	}
}

const eventColumns = `id, user_id, calendar_id, date_start, date_end, title, description, rrule, reminder_offset, need_to_remind, created_at, last_modified`

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", err)
		return nil, err
	}
	return &event, nil
}

// Create persists a new event and, when need_to_remind is set, its
// companion reminder in the same session. The reminder offset resolves in
// order: request value, the user's settings default, the global fallback.
// remind_at is computed from the request timestamps as supplied, not from a
// round-trip through the database.
func (r *EventRepository) Create(ctx context.Context, userID int64, req *dto.CreateEventRequest) (*entity.Event, error) {
	offset, err := r.resolveReminderOffset(ctx, userID, req.ReminderOffset)
	if err != nil {
		return nil, err
	}

	event, err := entity.NewEvent(entity.NewEventParams{
		UserID:         userID,
		CalendarID:     req.CalendarID,
		Title:          req.Title,
		DateStart:      req.DateStart,
		DateEnd:        req.DateEnd,
		Description:    req.Description,
		RRule:          req.RRule,
		ReminderOffset: offset,
		NeedToRemind:   req.RemindWanted(),
	})
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO events (user_id, calendar_id, date_start, date_end, title, description, rrule, reminder_offset, need_to_remind, created_at, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err = r.db.GetContext(ctx, &event.ID, query,
		event.UserID, event.CalendarID, event.DateStart, event.DateEnd,
		event.Title, event.Description, event.RRule,
		event.ReminderOffset, event.NeedToRemind,
		event.CreatedAt, event.LastModified)
	if err != nil {
		logger.Error("EventRepository:Create", err)
		return nil, database.WrapError(err, "event references an unknown calendar")
	}

	if event.NeedToRemind {
		if err := r.insertReminder(ctx, event); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// Update applies only the provided fields, then reconciles the companion
// reminder. Precedence: a need_to_remind change wins (true re-arms or
// creates the reminder with sent reset to false, false deletes it);
// otherwise a date_start or reminder_offset change refreshes remind_at when
// an active reminder exists. Unrelated field edits never touch the
// reminder.
func (r *EventRepository) Update(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*entity.Event, error) {
	event, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperrors.NotFound("event", id)
	}

	if err := applyEventUpdate(event, req); err != nil {
		return nil, err
	}

	query := `
		UPDATE events
		SET calendar_id = $2, date_start = $3, date_end = $4, title = $5, description = $6,
		    rrule = $7, reminder_offset = $8, need_to_remind = $9, last_modified = $10
		WHERE id = $1
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.CalendarID, event.DateStart, event.DateEnd,
		event.Title, event.Description, event.RRule,
		event.ReminderOffset, event.NeedToRemind, event.LastModified)
	if err != nil {
		logger.Error("EventRepository:Update", err)
		return nil, database.WrapError(err, "event references an unknown calendar")
	}

	if err := r.reconcileReminder(ctx, event, req); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes the event's reminders first and then the event, inside the
// caller's transaction. When userID is supplied, an ownership mismatch
// surfaces as the same not-found error as absence, so non-owners cannot
// probe for existence.
func (r *EventRepository) Delete(ctx context.Context, id int64, userID *int64) error {
	event, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event == nil {
		return apperrors.NotFound("event", id)
	}
	if userID != nil && event.UserID != *userID {
		return apperrors.NotFound("event", id)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE event_id = $1`, id); err != nil {
		logger.Error("EventRepository:Delete:Reminders", err)
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		logger.Error("EventRepository:Delete", err)
		return err
	}
	return nil
}

// DeleteByCalendarID removes all events linked to a calendar, reminders
// first. Used by the calendar delete cascade and by ICS re-imports.
func (r *EventRepository) DeleteByCalendarID(ctx context.Context, calendarID int64) (int64, error) {
	deleteReminders := `
		DELETE FROM reminders
		WHERE event_id IN (SELECT id FROM events WHERE calendar_id = $1)
	`
	if _, err := r.db.ExecContext(ctx, deleteReminders, calendarID); err != nil {
		logger.Error("EventRepository:DeleteByCalendarID:Reminders", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE calendar_id = $1`, calendarID)
	if err != nil {
		logger.Error("EventRepository:DeleteByCalendarID", err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *EventRepository) GetByUserID(ctx context.Context, userID int64) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1 ORDER BY date_start, id`

	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		logger.Error("EventRepository:GetByUserID", err)
		return nil, err
	}
	return events, nil
}

// eventFilterWhere renders the filter into a WHERE clause (possibly empty)
// and its positional arguments. Date bounds are inclusive on both ends.
func eventFilterWhere(filter *dto.EventFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.UserID != nil {
		where = append(where, "user_id = "+arg(*filter.UserID))
	}
	if filter.CalendarID != nil {
		where = append(where, "calendar_id = "+arg(*filter.CalendarID))
	}
	if filter.StartDateFrom != nil {
		where = append(where, "date_start >= "+arg(*filter.StartDateFrom))
	}
	if filter.StartDateTo != nil {
		where = append(where, "date_start <= "+arg(*filter.StartDateTo))
	}
	if filter.NeedToRemind != nil {
		where = append(where, "need_to_remind = "+arg(*filter.NeedToRemind))
	}

	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// Find returns events matching the filter, ordered by date_start and
// tie-broken by id, with offset/limit pagination.
func (r *EventRepository) Find(ctx context.Context, filter *dto.EventFilter) ([]entity.Event, error) {
	if err := filter.Normalize(); err != nil {
		return nil, err
	}

	where, args := eventFilterWhere(filter)
	query := `SELECT ` + eventColumns + ` FROM events` + where +
		" ORDER BY date_start, id" +
		" LIMIT $" + strconv.Itoa(len(args)+1) +
		" OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		logger.Error("EventRepository:Find", err)
		return nil, err
	}
	return events, nil
}

// Count returns how many events match the filter, ignoring pagination.
func (r *EventRepository) Count(ctx context.Context, filter *dto.EventFilter) (int, error) {
	if err := filter.Normalize(); err != nil {
		return 0, err
	}

	where, args := eventFilterWhere(filter)
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM events`+where, args...); err != nil {
		logger.Error("EventRepository:Count", err)
		return 0, err
	}
	return total, nil
}

// GetUpcomingForReminders returns the user's events whose unsent reminder
// fires strictly inside (from, to). Within a transaction, earlier inserts
// in the same unit of work are already visible to this query, so reminders
// created moments before are picked up.
func (r *EventRepository) GetUpcomingForReminders(ctx context.Context, userID int64, from, to time.Time) ([]entity.Event, error) {
	query := `
		SELECT e.` + strings.ReplaceAll(eventColumns, ", ", ", e.") + `
		FROM events e
		JOIN reminders rem ON rem.event_id = e.id
		WHERE e.user_id = $1
		  AND rem.sent = FALSE
		  AND rem.remind_at > $2
		  AND rem.remind_at < $3
		ORDER BY rem.remind_at, e.id
	`
	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, userID, from, to); err != nil {
		logger.Error("EventRepository:GetUpcomingForReminders", err)
		return nil, err
	}
	return events, nil
}

// ListUsersWithDueReminders returns the owners of unsent reminders firing
// strictly inside (from, to). The delivery sweep iterates these and calls
// GetUpcomingForReminders per user.
func (r *EventRepository) ListUsersWithDueReminders(ctx context.Context, from, to time.Time) ([]int64, error) {
	query := `
		SELECT DISTINCT user_id FROM reminders
		WHERE sent = FALSE AND remind_at > $1 AND remind_at < $2
		ORDER BY user_id
	`
	var userIDs []int64
	if err := r.db.SelectContext(ctx, &userIDs, query, from, to); err != nil {
		logger.Error("EventRepository:ListUsersWithDueReminders", err)
		return nil, err
	}
	return userIDs, nil
}

// SetReminderSent marks the event's reminder as delivered. Idempotent: a
// second call, or a call for an event without a reminder, is a no-op.
func (r *EventRepository) SetReminderSent(ctx context.Context, eventID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE reminders SET sent = TRUE WHERE event_id = $1`, eventID)
	if err != nil {
		logger.Error("EventRepository:SetReminderSent", err)
		return err
	}
	return nil
}

// CleanUpSentReminders hard-deletes delivered reminders and reports how
// many were removed. Periodic maintenance, not tied to any single event.
func (r *EventRepository) CleanUpSentReminders(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE sent = TRUE`)
	if err != nil {
		logger.Error("EventRepository:CleanUpSentReminders", err)
		return 0, err
	}
	return res.RowsAffected()
}

// GetReminderByEventID fetches the companion reminder, nil when none
// exists.
func (r *EventRepository) GetReminderByEventID(ctx context.Context, eventID int64) (*entity.Reminder, error) {
	query := `SELECT id, event_id, user_id, remind_at, sent FROM reminders WHERE event_id = $1`

	var reminder entity.Reminder
	err := r.db.GetContext(ctx, &reminder, query, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:GetReminderByEventID", err)
		return nil, err
	}
	return &reminder, nil
}

func (r *EventRepository) resolveReminderOffset(ctx context.Context, userID int64, requested *int64) (int64, error) {
	if requested != nil {
		return *requested, nil
	}
	fromSettings, err := r.settings.DefaultReminderOffset(ctx, userID)
	if err != nil {
		return 0, err
	}
	if fromSettings != nil {
		return *fromSettings, nil
	}
	return constants.DefaultReminderOffsetSeconds, nil
}

func (r *EventRepository) insertReminder(ctx context.Context, event *entity.Event) error {
	remindAt, err := entity.ComputeRemindAt(event.DateStart, event.ReminderOffset)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO reminders (event_id, user_id, remind_at, sent)
		VALUES ($1, $2, $3, FALSE)
	`
	if _, err := r.db.ExecContext(ctx, query, event.ID, event.UserID, remindAt); err != nil {
		logger.Error("EventRepository:InsertReminder", err)
		return err
	}
	return nil
}

// applyEventUpdate merges the provided fields into event, validating each
// and the resulting cross-field invariants.
func applyEventUpdate(event *entity.Event, req *dto.UpdateEventRequest) error {
	if req.Title != nil {
		title, err := entity.ValidateTitle(*req.Title)
		if err != nil {
			return err
		}
		event.Title = title
	}
	if req.Description != nil {
		if err := entity.ValidateDescription(req.Description); err != nil {
			return err
		}
		event.Description = req.Description
	}
	if req.RRule != nil {
		normalized, err := entity.ValidateRRule(req.RRule)
		if err != nil {
			return err
		}
		event.RRule = normalized
	}
	if req.DateStart != nil {
		event.DateStart = *req.DateStart
	}
	if req.DateEnd != nil {
		event.DateEnd = *req.DateEnd
	}
	if err := entity.ValidateDateRange(event.DateStart, event.DateEnd); err != nil {
		return err
	}
	if req.ReminderOffset != nil {
		if err := entity.ValidateOffset(*req.ReminderOffset); err != nil {
			return err
		}
		event.ReminderOffset = *req.ReminderOffset
	}
	if req.NeedToRemind != nil {
		event.NeedToRemind = *req.NeedToRemind
	}
	if req.ClearCalendarID {
		event.CalendarID = nil
	}
	if req.CalendarID != nil {
		event.CalendarID = req.CalendarID
	}

	now := time.Now().UTC()
	if err := entity.ValidateLastModified(event.CreatedAt, now); err != nil {
		return err
	}
	event.LastModified = now
	return nil
}

// reconcileReminder keeps the companion reminder in sync after an update.
func (r *EventRepository) reconcileReminder(ctx context.Context, event *entity.Event, req *dto.UpdateEventRequest) error {
	switch {
	case req.NeedToRemind != nil && *req.NeedToRemind:
		// Re-enabled (or re-confirmed): the reminder must fire again.
		remindAt, err := entity.ComputeRemindAt(event.DateStart, event.ReminderOffset)
		if err != nil {
			return err
		}
		existing, err := r.GetReminderByEventID(ctx, event.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			query := `UPDATE reminders SET remind_at = $2, sent = FALSE WHERE event_id = $1`
			if _, err := r.db.ExecContext(ctx, query, event.ID, remindAt); err != nil {
				logger.Error("EventRepository:ReconcileReminder:Rearm", err)
				return err
			}
			return nil
		}
		return r.insertReminder(ctx, event)

	case req.NeedToRemind != nil:
		// Disabled: drop the reminder, if any.
		if _, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE event_id = $1`, event.ID); err != nil {
			logger.Error("EventRepository:ReconcileReminder:Delete", err)
			return err
		}
		return nil

	case req.ReminderOffset != nil || req.DateStart != nil:
		// Timing changed without toggling the flag: refresh remind_at when
		// an active reminder exists. Sent state is left alone.
		if !event.NeedToRemind {
			return nil
		}
		existing, err := r.GetReminderByEventID(ctx, event.ID)
		if err != nil || existing == nil {
			return err
		}
		remindAt, err := entity.ComputeRemindAt(event.DateStart, event.ReminderOffset)
		if err != nil {
			return err
		}
		query := `UPDATE reminders SET remind_at = $2 WHERE event_id = $1`
		if _, err := r.db.ExecContext(ctx, query, event.ID, remindAt); err != nil {
			logger.Error("EventRepository:ReconcileReminder:Refresh", err)
			return err
		}
		return nil
	}
	return nil
}

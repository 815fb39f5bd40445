package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"schedbot/core/database"
	apperrors "schedbot/core/errors"
	"schedbot/core/logger"
	"schedbot/modules/calendar/dto"
	"schedbot/modules/calendar/entity"
	eventrepo "schedbot/modules/event/repository"
)

// CalendarRepository provides CRUD over calendars. Name and url uniqueness
// is checked here first; the UNIQUE indexes catch creates that race past
// the check and surface as conflict errors.
type CalendarRepository struct {
	db database.Session
}

func NewCalendarRepository(db database.Session) *CalendarRepository {
	return &CalendarRepository{db: db}
}

const calendarColumns = `id, user_id, name, url, last_sync, sync_enabled`

func (r *CalendarRepository) GetByID(ctx context.Context, id int64) (*entity.Calendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars WHERE id = $1`

	var calendar entity.Calendar
	err := r.db.GetContext(ctx, &calendar, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetByID", err)
		return nil, err
	}
	return &calendar, nil
}

func (r *CalendarRepository) GetByUserID(ctx context.Context, userID int64) ([]entity.Calendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars WHERE user_id = $1 ORDER BY id`

	var calendars []entity.Calendar
	if err := r.db.SelectContext(ctx, &calendars, query, userID); err != nil {
		logger.Error("CalendarRepository:GetByUserID", err)
		return nil, err
	}
	return calendars, nil
}

func (r *CalendarRepository) Create(ctx context.Context, userID int64, req *dto.CreateCalendarRequest) (*entity.Calendar, error) {
	calendar, err := entity.NewCalendar(userID, req.Name, req.URL)
	if err != nil {
		return nil, err
	}

	var taken bool
	err = r.db.GetContext(ctx, &taken,
		`SELECT EXISTS (SELECT 1 FROM calendars WHERE name = $1 OR url = $2)`,
		calendar.Name, calendar.URL)
	if err != nil {
		logger.Error("CalendarRepository:Create:UniqueCheck", err)
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("calendar name or url already in use", nil)
	}

	query := `
		INSERT INTO calendars (user_id, name, url, sync_enabled)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = r.db.GetContext(ctx, &calendar.ID, query,
		calendar.UserID, calendar.Name, calendar.URL, calendar.SyncEnabled)
	if err != nil {
		logger.Error("CalendarRepository:Create", err)
		return nil, database.WrapError(err, "calendar name or url already in use")
	}
	return calendar, nil
}

func (r *CalendarRepository) Update(ctx context.Context, id int64, req *dto.UpdateCalendarRequest) (*entity.Calendar, error) {
	calendar, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if calendar == nil {
		return nil, apperrors.NotFound("calendar", id)
	}

	if req.Name != nil {
		name, err := entity.ValidateName(*req.Name)
		if err != nil {
			return nil, err
		}
		calendar.Name = name
	}
	if req.URL != nil {
		if err := entity.ValidateURL(*req.URL); err != nil {
			return nil, err
		}
		calendar.URL = *req.URL
	}
	if req.SyncEnabled != nil {
		calendar.SyncEnabled = *req.SyncEnabled
	}

	query := `UPDATE calendars SET name = $2, url = $3, sync_enabled = $4 WHERE id = $1`
	_, err = r.db.ExecContext(ctx, query, calendar.ID, calendar.Name, calendar.URL, calendar.SyncEnabled)
	if err != nil {
		logger.Error("CalendarRepository:Update", err)
		return nil, database.WrapError(err, "calendar name or url already in use")
	}
	return calendar, nil
}

// Delete removes the calendar and everything that hangs off it: reminders
// of its events, then the events, then the calendar row. The sequence is
// explicit application logic, not storage-engine cascade configuration, so
// it is observable within the surrounding transaction.
func (r *CalendarRepository) Delete(ctx context.Context, id int64, userID *int64) error {
	calendar, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if calendar == nil {
		return apperrors.NotFound("calendar", id)
	}
	if userID != nil && calendar.UserID != *userID {
		return apperrors.NotFound("calendar", id)
	}

	events := eventrepo.NewEventRepository(r.db)
	if _, err := events.DeleteByCalendarID(ctx, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = $1`, id); err != nil {
		logger.Error("CalendarRepository:Delete", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) Find(ctx context.Context, filter *dto.CalendarFilter) ([]entity.Calendar, error) {
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
	if filter.Name != nil {
		where = append(where, "name = "+arg(*filter.Name))
	}
	if filter.URL != nil {
		where = append(where, "url = "+arg(*filter.URL))
	}

	query := `SELECT ` + calendarColumns + ` FROM calendars`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	var calendars []entity.Calendar
	if err := r.db.SelectContext(ctx, &calendars, query, args...); err != nil {
		logger.Error("CalendarRepository:Find", err)
		return nil, err
	}
	return calendars, nil
}

// ListSyncEnabled returns every calendar with sync turned on, for the
// periodic sync task.
func (r *CalendarRepository) ListSyncEnabled(ctx context.Context) ([]entity.Calendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars WHERE sync_enabled = TRUE ORDER BY id`

	var calendars []entity.Calendar
	if err := r.db.SelectContext(ctx, &calendars, query); err != nil {
		logger.Error("CalendarRepository:ListSyncEnabled", err)
		return nil, err
	}
	return calendars, nil
}

// MarkSynced stamps a successful sync.
func (r *CalendarRepository) MarkSynced(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE calendars SET last_sync = $2 WHERE id = $1`, id, at)
	if err != nil {
		logger.Error("CalendarRepository:MarkSynced", err)
	}
	return err
}

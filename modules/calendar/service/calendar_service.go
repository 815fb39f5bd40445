package service

import (
	"context"
	"time"

	"schedbot/core/constants"
	"schedbot/core/database"
	apperrors "schedbot/core/errors"
	"schedbot/core/logger"
	"schedbot/modules/calendar/dto"
	"schedbot/modules/calendar/entity"
	"schedbot/modules/calendar/repository"
	eventdto "schedbot/modules/event/dto"
	evententity "schedbot/modules/event/entity"
	eventrepo "schedbot/modules/event/repository"
)

type CalendarService struct {
	db      *database.Database
	fetcher *ICSFetcher
}

func NewCalendarService(db *database.Database) *CalendarService {
	return &CalendarService{db: db, fetcher: NewICSFetcher()}
}

func (s *CalendarService) Create(ctx context.Context, userID int64, req *dto.CreateCalendarRequest) (*entity.Calendar, error) {
	var created *entity.Calendar
	err := s.db.WithinTx(ctx, func(sess database.Session) error {
		calendar, err := repository.NewCalendarRepository(sess).Create(ctx, userID, req)
		if err != nil {
			return err
		}
		created = calendar
		return nil
	})
	return created, err
}

func (s *CalendarService) GetByID(ctx context.Context, userID, calendarID int64) (*entity.Calendar, error) {
	repo := repository.NewCalendarRepository(s.db.Session())
	calendar, err := repo.GetByID(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if calendar == nil || calendar.UserID != userID {
		return nil, apperrors.NotFound("calendar", calendarID)
	}
	return calendar, nil
}

func (s *CalendarService) GetMine(ctx context.Context, userID int64) ([]entity.Calendar, error) {
	return repository.NewCalendarRepository(s.db.Session()).GetByUserID(ctx, userID)
}

func (s *CalendarService) Update(ctx context.Context, userID, calendarID int64, req *dto.UpdateCalendarRequest) (*entity.Calendar, error) {
	var updated *entity.Calendar
	err := s.db.WithinTx(ctx, func(sess database.Session) error {
		repo := repository.NewCalendarRepository(sess)
		calendar, err := repo.GetByID(ctx, calendarID)
		if err != nil {
			return err
		}
		if calendar == nil || calendar.UserID != userID {
			return apperrors.NotFound("calendar", calendarID)
		}
		calendar, err = repo.Update(ctx, calendarID, req)
		if err != nil {
			return err
		}
		updated = calendar
		return nil
	})
	return updated, err
}

// Delete removes the calendar, its events and their reminders atomically.
func (s *CalendarService) Delete(ctx context.Context, userID, calendarID int64) error {
	return s.db.WithinTx(ctx, func(sess database.Session) error {
		return repository.NewCalendarRepository(sess).Delete(ctx, calendarID, &userID)
	})
}

func (s *CalendarService) Find(ctx context.Context, userID int64, filter *dto.CalendarFilter) ([]entity.Calendar, error) {
	filter.UserID = &userID
	return repository.NewCalendarRepository(s.db.Session()).Find(ctx, filter)
}

// Sync imports the calendar's ICS feed. The import is replace-style:
// previously imported events for this calendar are removed and the feed's
// current contents take their place, all inside one unit of work, then
// last_sync is stamped. Recurrence rules that fit the supported subset are
// stored verbatim; nothing is expanded.
func (s *CalendarService) Sync(ctx context.Context, userID *int64, calendarID int64) (*dto.SyncResult, error) {
	reader := repository.NewCalendarRepository(s.db.Session())
	calendar, err := reader.GetByID(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if calendar == nil || (userID != nil && calendar.UserID != *userID) {
		return nil, apperrors.NotFound("calendar", calendarID)
	}
	if !calendar.SyncEnabled {
		return nil, apperrors.Validation("calendar sync is disabled")
	}

	body, err := s.fetcher.Fetch(ctx, calendar.URL)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseICS(body)
	if err != nil {
		return nil, err
	}

	result := &dto.SyncResult{CalendarID: calendarID}
	err = s.db.WithinTx(ctx, func(sess database.Session) error {
		events := eventrepo.NewEventRepository(sess)
		calendars := repository.NewCalendarRepository(sess)

		removed, err := events.DeleteByCalendarID(ctx, calendarID)
		if err != nil {
			return err
		}
		result.Removed = removed

		for _, pe := range parsed {
			req := importRequest(calendar, pe)
			if _, err := events.Create(ctx, calendar.UserID, req); err != nil {
				if apperrors.IsCode(err, apperrors.ErrInvalidInput) {
					logger.Warn("CalendarService:Sync: skipping event", "uid", pe.UID, "error", err)
					result.Skipped++
					continue
				}
				return err
			}
			result.Imported++
		}

		return calendars.MarkSynced(ctx, calendarID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SyncAll syncs every sync-enabled calendar; used by the periodic worker
// task. Per-calendar failures are logged and do not stop the run.
func (s *CalendarService) SyncAll(ctx context.Context) error {
	calendars, err := repository.NewCalendarRepository(s.db.Session()).ListSyncEnabled(ctx)
	if err != nil {
		return err
	}
	for _, calendar := range calendars {
		if _, err := s.Sync(ctx, nil, calendar.ID); err != nil {
			logger.Error("CalendarService:SyncAll", "calendar_id", calendar.ID, "error", err)
		}
	}
	return nil
}

// importRequest maps a parsed VEVENT onto an event create request.
// Imported events do not ring by default: the user enables reminders per
// event after import.
func importRequest(calendar *entity.Calendar, pe ParsedEvent) *eventdto.CreateEventRequest {
	remind := false
	req := &eventdto.CreateEventRequest{
		Title:        pe.Summary,
		DateStart:    pe.Start,
		DateEnd:      pe.End,
		NeedToRemind: &remind,
		CalendarID:   &calendar.ID,
	}
	if pe.Description != "" {
		desc := pe.Description
		if len(desc) > constants.MaxDescriptionLength {
			desc = desc[:constants.MaxDescriptionLength]
		}
		req.Description = &desc
	}
	if pe.RawRRule != "" {
		// Only rules inside the supported subset survive; anything else
		// is dropped from the imported event rather than failing the row.
		if normalized, err := evententity.ValidateRRule(&pe.RawRRule); err == nil {
			req.RRule = normalized
		}
	}
	return req
}

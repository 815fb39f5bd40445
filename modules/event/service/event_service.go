package service

import (
	"context"
	"time"

	"schedbot/core/database"
	coreentity "schedbot/core/entity"
	apperrors "schedbot/core/errors"
	"schedbot/core/params"
	"schedbot/modules/event/dto"
	"schedbot/modules/event/entity"
	"schedbot/modules/event/repository"
)

// EventService owns the unit-of-work scope for event operations: every
// mutation runs inside one transaction, so the event and its reminder
// commit or roll back together.
type EventService struct {
	db *database.Database
}

func NewEventService(db *database.Database) *EventService {
	return &EventService{db: db}
}

func (s *EventService) Create(ctx context.Context, userID int64, req *dto.CreateEventRequest) (*entity.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created *entity.Event
	err := s.db.WithinTx(ctx, func(sess database.Session) error {
		repo := repository.NewEventRepository(sess)
		event, err := repo.Create(ctx, userID, req)
		if err != nil {
			return err
		}
		created = event
		return nil
	})
	return created, err
}

func (s *EventService) Update(ctx context.Context, userID, eventID int64, req *dto.UpdateEventRequest) (*entity.Event, error) {
	if req.Empty() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidRequestData, "update carries no fields", nil)
	}

	var updated *entity.Event
	err := s.db.WithinTx(ctx, func(sess database.Session) error {
		repo := repository.NewEventRepository(sess)
		event, err := repo.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		// Ownership conflated with existence.
		if event == nil || event.UserID != userID {
			return apperrors.NotFound("event", eventID)
		}
		event, err = repo.Update(ctx, eventID, req)
		if err != nil {
			return err
		}
		updated = event
		return nil
	})
	return updated, err
}

func (s *EventService) Delete(ctx context.Context, userID, eventID int64) error {
	return s.db.WithinTx(ctx, func(sess database.Session) error {
		repo := repository.NewEventRepository(sess)
		return repo.Delete(ctx, eventID, &userID)
	})
}

func (s *EventService) GetByID(ctx context.Context, userID, eventID int64) (*entity.Event, error) {
	repo := repository.NewEventRepository(s.db.Session())
	event, err := repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil || event.UserID != userID {
		return nil, apperrors.NotFound("event", eventID)
	}
	return event, nil
}

// Find scopes the filter to the calling user regardless of what the filter
// claims, and wraps the page in the shared pagination envelope.
func (s *EventService) Find(ctx context.Context, userID int64, filter *dto.EventFilter, qp *params.QueryParams) (*coreentity.Pagination[entity.Event], error) {
	filter.UserID = &userID
	filter.Limit = qp.PageSize
	filter.Offset = qp.Offset()

	repo := repository.NewEventRepository(s.db.Session())
	events, err := repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &coreentity.Pagination[entity.Event]{
		Items:      events,
		TotalItems: total,
		PageNumber: qp.PageNumber,
		PageSize:   qp.PageSize,
	}, nil
}

func (s *EventService) GetUpcomingForReminders(ctx context.Context, userID int64, from, to time.Time) ([]entity.Event, error) {
	repo := repository.NewEventRepository(s.db.Session())
	return repo.GetUpcomingForReminders(ctx, userID, from, to)
}

func (s *EventService) SetReminderSent(ctx context.Context, eventID int64) error {
	return s.db.WithinTx(ctx, func(sess database.Session) error {
		return repository.NewEventRepository(sess).SetReminderSent(ctx, eventID)
	})
}

func (s *EventService) CleanUpSentReminders(ctx context.Context) (int64, error) {
	var removed int64
	err := s.db.WithinTx(ctx, func(sess database.Session) error {
		n, err := repository.NewEventRepository(sess).CleanUpSentReminders(ctx)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	return removed, err
}

// ListUsersWithDueReminders supports the delivery sweep.
func (s *EventService) ListUsersWithDueReminders(ctx context.Context, from, to time.Time) ([]int64, error) {
	repo := repository.NewEventRepository(s.db.Session())
	return repo.ListUsersWithDueReminders(ctx, from, to)
}

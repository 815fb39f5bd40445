package dto

import (
	"time"

	"schedbot/core/constants"
	apperrors "schedbot/core/errors"
)

// CreateEventRequest carries the fields for a new event. ReminderOffset is
// optional: when omitted, the user's settings default applies, then the
// global 900-second fallback. NeedToRemind defaults to true when omitted.
type CreateEventRequest struct {
	Title          string    `json:"title"`
	DateStart      time.Time `json:"date_start"`
	DateEnd        time.Time `json:"date_end"`
	ReminderOffset *int64    `json:"reminder_offset,omitempty"`
	NeedToRemind   *bool     `json:"need_to_remind,omitempty"`
	Description    *string   `json:"description,omitempty"`
	RRule          *string   `json:"rrule,omitempty"`
	CalendarID     *int64    `json:"calendar_id,omitempty"`
}

// Validate enforces transport-level format constraints before the entity
// layer is touched. The entity layer re-checks its own invariants.
func (r *CreateEventRequest) Validate() error {
	if r.Title == "" {
		return apperrors.NewAppError(apperrors.ErrInvalidRequestData, "title is required", nil)
	}
	if r.DateStart.IsZero() || r.DateEnd.IsZero() {
		return apperrors.NewAppError(apperrors.ErrInvalidRequestData, "date_start and date_end are required", nil)
	}
	if r.ReminderOffset != nil && *r.ReminderOffset < 0 {
		return apperrors.NewAppError(apperrors.ErrInvalidRequestData, "reminder_offset must be non-negative", nil)
	}
	return nil
}

// RemindWanted resolves the need_to_remind default.
func (r *CreateEventRequest) RemindWanted() bool {
	if r.NeedToRemind == nil {
		return true
	}
	return *r.NeedToRemind
}

// UpdateEventRequest updates only the provided fields; omitted fields stay
// untouched. ClearCalendarID detaches the event from its calendar, since
// "omitted" and "set to null" must be distinguishable.
type UpdateEventRequest struct {
	Title           *string    `json:"title,omitempty"`
	DateStart       *time.Time `json:"date_start,omitempty"`
	DateEnd         *time.Time `json:"date_end,omitempty"`
	ReminderOffset  *int64     `json:"reminder_offset,omitempty"`
	NeedToRemind    *bool      `json:"need_to_remind,omitempty"`
	Description     *string    `json:"description,omitempty"`
	RRule           *string    `json:"rrule,omitempty"`
	CalendarID      *int64     `json:"calendar_id,omitempty"`
	ClearCalendarID bool       `json:"clear_calendar_id,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (r *UpdateEventRequest) Empty() bool {
	return r.Title == nil && r.DateStart == nil && r.DateEnd == nil &&
		r.ReminderOffset == nil && r.NeedToRemind == nil &&
		r.Description == nil && r.RRule == nil &&
		r.CalendarID == nil && !r.ClearCalendarID
}

// EventFilter selects events by owner, calendar, start-date range
// (inclusive on both ends) and reminder flag, with stable ordering and
// offset/limit pagination.
type EventFilter struct {
	UserID        *int64     `json:"user_id,omitempty" query:"user_id"`
	CalendarID    *int64     `json:"calendar_id,omitempty" query:"calendar_id"`
	StartDateFrom *time.Time `json:"start_date_from,omitempty" query:"start_date_from"`
	StartDateTo   *time.Time `json:"start_date_to,omitempty" query:"start_date_to"`
	NeedToRemind  *bool      `json:"need_to_remind,omitempty" query:"need_to_remind"`
	Limit         int        `json:"limit,omitempty" query:"limit"`
	Offset        int        `json:"offset,omitempty" query:"offset"`
}

// Normalize clamps pagination to sane bounds and checks range ordering.
func (f *EventFilter) Normalize() error {
	if f.Limit <= 0 {
		f.Limit = constants.DefaultQueryLimit
	}
	if f.Limit > constants.MaxQueryLimit {
		f.Limit = constants.MaxQueryLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.StartDateFrom != nil && f.StartDateTo != nil && f.StartDateTo.Before(*f.StartDateFrom) {
		return apperrors.NewAppError(apperrors.ErrInvalidRequestData, "start_date_to must be after or equal to start_date_from", nil)
	}
	return nil
}

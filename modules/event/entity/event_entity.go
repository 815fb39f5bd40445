package entity

import (
	"strings"
	"time"

	"schedbot/core/constants"
	"schedbot/core/database"
	apperrors "schedbot/core/errors"
)

// Event is a single calendar entry, modeled after RFC 5545 (SUMMARY,
// DTSTART, DTEND, RRULE). ReminderOffset is seconds before DateStart.
type Event struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	CalendarID     *int64    `db:"calendar_id" json:"calendar_id,omitempty"`
	DateStart      time.Time `db:"date_start" json:"date_start"`
	DateEnd        time.Time `db:"date_end" json:"date_end"`
	Title          string    `db:"title" json:"title"`
	Description    *string   `db:"description" json:"description,omitempty"`
	RRule          *string   `db:"rrule" json:"rrule,omitempty"`
	ReminderOffset int64     `db:"reminder_offset" json:"reminder_offset"`
	NeedToRemind   bool      `db:"need_to_remind" json:"need_to_remind"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	LastModified   time.Time `db:"last_modified" json:"last_modified"`
}

// OffsetDuration returns the reminder offset as a duration.
func (e *Event) OffsetDuration() time.Duration {
	return time.Duration(e.ReminderOffset) * time.Second
}

var Table = database.TableDef{
	Name: "events",
	DDL: `
		CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			calendar_id BIGINT NULL REFERENCES calendars(id),
			date_start TIMESTAMPTZ NOT NULL,
			date_end TIMESTAMPTZ NOT NULL,
			title VARCHAR(255) NOT NULL,
			description VARCHAR(1024) NULL,
			rrule VARCHAR(255) NULL,
			reminder_offset BIGINT NOT NULL,
			need_to_remind BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			last_modified TIMESTAMPTZ NOT NULL,
			CONSTRAINT end_after_start CHECK (date_end >= date_start),
			CONSTRAINT last_modified_after_created CHECK (last_modified >= created_at),
			CONSTRAINT reminder_offset_non_negative CHECK (reminder_offset >= 0)
		)`,
}

// NewEventParams carries the fields for constructing an Event. The
// reminder offset must already be resolved (caller value, settings default,
// or global fallback) by the time this runs.
type NewEventParams struct {
	UserID         int64
	CalendarID     *int64
	Title          string
	DateStart      time.Time
	DateEnd        time.Time
	Description    *string
	RRule          *string
	ReminderOffset int64
	NeedToRemind   bool
}

// NewEvent validates and constructs an Event. Every field invariant is
// enforced here, before any persistence attempt; the SQL CHECK constraints
// remain as a second line of defense against direct-SQL paths.
func NewEvent(p NewEventParams) (*Event, error) {
	if p.UserID == 0 {
		return nil, apperrors.Validation("event user_id is required")
	}

	title, err := ValidateTitle(p.Title)
	if err != nil {
		return nil, err
	}
	if err := ValidateDescription(p.Description); err != nil {
		return nil, err
	}
	rrule, err := ValidateRRule(p.RRule)
	if err != nil {
		return nil, err
	}
	if err := ValidateDateRange(p.DateStart, p.DateEnd); err != nil {
		return nil, err
	}
	if err := ValidateOffset(p.ReminderOffset); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Event{
		UserID:         p.UserID,
		CalendarID:     p.CalendarID,
		DateStart:      p.DateStart,
		DateEnd:        p.DateEnd,
		Title:          title,
		Description:    p.Description,
		RRule:          rrule,
		ReminderOffset: p.ReminderOffset,
		NeedToRemind:   p.NeedToRemind,
		CreatedAt:      now,
		LastModified:   now,
	}, nil
}

// ValidateTitle trims and bounds the event title (SUMMARY).
func ValidateTitle(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.Validation("event title (SUMMARY) cannot be empty")
	}
	if len(value) > constants.MaxTitleLength {
		return "", apperrors.Validation("event title (SUMMARY) cannot exceed 255 characters")
	}
	return value, nil
}

func ValidateDescription(value *string) error {
	if value != nil && len(*value) > constants.MaxDescriptionLength {
		return apperrors.Validation("event description (DESCRIPTION) cannot exceed 1024 characters")
	}
	return nil
}

// ValidateDateRange requires zone-qualified, non-zero timestamps with
// date_end not before date_start. A zero time.Time is the Go rendering of a
// naive/unset timestamp.
func ValidateDateRange(start, end time.Time) error {
	if start.IsZero() {
		return apperrors.Validation("event date_start (DTSTART) must be a zone-qualified timestamp")
	}
	if end.IsZero() {
		return apperrors.Validation("event date_end (DTEND) must be a zone-qualified timestamp")
	}
	if end.Before(start) {
		return apperrors.Validation("event end date (DTEND) must be not before start date (DTSTART)")
	}
	return nil
}

func ValidateOffset(offsetSeconds int64) error {
	if offsetSeconds < 0 {
		return apperrors.Validation("reminder_offset must be a non-negative integer number of seconds")
	}
	return nil
}

// NormalizeOffset converts a duration-like offset into whole seconds.
func NormalizeOffset(d time.Duration) (int64, error) {
	if d < 0 {
		return 0, apperrors.Validation("reminder_offset must be non-negative")
	}
	if d%time.Second != 0 {
		return 0, apperrors.Validation("reminder_offset must be a whole number of seconds")
	}
	return int64(d / time.Second), nil
}

// ValidateLastModified keeps the modification clock monotonic relative to
// creation.
func ValidateLastModified(createdAt, lastModified time.Time) error {
	if lastModified.Before(createdAt) {
		return apperrors.Validation("last_modified cannot be earlier than created_at")
	}
	return nil
}

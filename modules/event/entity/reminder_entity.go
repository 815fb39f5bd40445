package entity

import (
	"time"

	"schedbot/core/database"
	apperrors "schedbot/core/errors"
)

// Reminder is a scheduled notification tied to exactly one event. UserID is
// denormalized from the event so the delivery sweep can select by owner
// without a join on every row.
type Reminder struct {
	ID       int64     `db:"id" json:"id"`
	EventID  int64     `db:"event_id" json:"event_id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	RemindAt time.Time `db:"remind_at" json:"remind_at"`
	Sent     bool      `db:"sent" json:"sent"`
}

var ReminderTable = database.TableDef{
	Name: "reminders",
	DDL: `
		CREATE TABLE IF NOT EXISTS reminders (
			id BIGSERIAL PRIMARY KEY,
			event_id BIGINT NOT NULL REFERENCES events(id),
			user_id BIGINT NOT NULL,
			remind_at TIMESTAMPTZ NOT NULL,
			sent BOOLEAN NOT NULL DEFAULT FALSE
		)`,
}

// ComputeRemindAt derives the reminder fire-time from an event's start and
// offset: remind_at = date_start - offset seconds.
//
// Pure function, no I/O. Fails when the offset is negative, when the start
// timestamp is the zero value (Go's rendering of a naive/unset timestamp),
// or when the result is not strictly before the start — which also rejects
// a zero offset. These failures indicate a data-integrity bug upstream:
// the fields are validated before reminder computation ever runs.
func ComputeRemindAt(dateStart time.Time, offsetSeconds int64) (time.Time, error) {
	if offsetSeconds < 0 {
		return time.Time{}, apperrors.Temporal("reminder_offset must be a non-negative integer number of seconds")
	}
	if dateStart.IsZero() {
		return time.Time{}, apperrors.Temporal("event date_start must be a zone-qualified, non-zero timestamp")
	}

	remindAt := dateStart.Add(-time.Duration(offsetSeconds) * time.Second)
	if !remindAt.Before(dateStart) {
		return time.Time{}, apperrors.Temporal("remind_at must be strictly before event start")
	}
	return remindAt, nil
}

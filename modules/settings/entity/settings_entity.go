package entity

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"schedbot/core/constants"
	"schedbot/core/database"
	apperrors "schedbot/core/errors"
)

// Settings holds per-user preferences. One logical row per user; the
// unique index on user_id is the storage-level guard behind the
// application-level get-or-create flow.
type Settings struct {
	ID                    int64      `db:"id" json:"id"`
	UserID                int64      `db:"user_id" json:"user_id"`
	Timezone              string     `db:"timezone" json:"timezone"`
	Language              string     `db:"language" json:"language"`
	QuietHoursStart       *TimeOfDay `db:"quiet_hours_start" json:"quiet_hours_start,omitempty"`
	QuietHoursEnd         *TimeOfDay `db:"quiet_hours_end" json:"quiet_hours_end,omitempty"`
	DailyPlansTime        *TimeOfDay `db:"daily_plans_time" json:"daily_plans_time,omitempty"`
	DefaultReminderOffset int64      `db:"default_reminder_offset" json:"default_reminder_offset"`
}

var Table = database.TableDef{
	Name: "user_settings",
	DDL: `
		CREATE TABLE IF NOT EXISTS user_settings (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE,
			timezone VARCHAR(64) NOT NULL DEFAULT 'UTC+2',
			language VARCHAR(16) NOT NULL DEFAULT 'en',
			quiet_hours_start TIME NULL,
			quiet_hours_end TIME NULL,
			daily_plans_time TIME NULL,
			default_reminder_offset BIGINT NOT NULL DEFAULT 900,
			CONSTRAINT default_reminder_offset_non_negative CHECK (default_reminder_offset >= 0),
			CONSTRAINT quiet_end_required_if_start_set CHECK (quiet_hours_start IS NULL OR quiet_hours_end IS NOT NULL),
			CONSTRAINT quiet_end_after_start CHECK (quiet_hours_start IS NULL OR quiet_hours_end > quiet_hours_start)
		)`,
}

// TimeOfDay is a wall-clock time ("HH:MM") mapped onto a Postgres TIME
// column.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, apperrors.Validation(fmt.Sprintf("invalid time of day %q, expected HH:MM", s))
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes() < other.minutes()
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour, t.Minute), nil
}

func (t *TimeOfDay) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		t.Hour, t.Minute = v.Hour(), v.Minute()
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", value)
	}
}

func (t *TimeOfDay) scanString(s string) error {
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return err
	}
	t.Hour, t.Minute = parsed.Hour(), parsed.Minute()
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("time of day must be a JSON string")
	}
	parsed, err := ParseTimeOfDay(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// NewSettingsParams carries the caller-supplied fields for a settings row.
// Zero-value strings fall back to global defaults.
type NewSettingsParams struct {
	UserID                int64
	Timezone              string
	Language              string
	QuietHoursStart       *TimeOfDay
	QuietHoursEnd         *TimeOfDay
	DailyPlansTime        *TimeOfDay
	DefaultReminderOffset *int64
}

// NewSettings validates and constructs a Settings value. All field
// invariants are checked here, ahead of the SQL constraints.
func NewSettings(p NewSettingsParams) (*Settings, error) {
	if p.UserID == 0 {
		return nil, apperrors.Validation("settings user_id is required")
	}
	if err := ValidateQuietHours(p.QuietHoursStart, p.QuietHoursEnd); err != nil {
		return nil, err
	}

	offset := constants.DefaultReminderOffsetSeconds
	if p.DefaultReminderOffset != nil {
		if *p.DefaultReminderOffset < 0 {
			return nil, apperrors.Validation("default_reminder_offset must be non-negative")
		}
		offset = *p.DefaultReminderOffset
	}

	tz := p.Timezone
	if tz == "" {
		tz = constants.DefaultTimezone
	}
	lang := p.Language
	if lang == "" {
		lang = constants.DefaultLanguage
	}

	return &Settings{
		UserID:                p.UserID,
		Timezone:              tz,
		Language:              lang,
		QuietHoursStart:       p.QuietHoursStart,
		QuietHoursEnd:         p.QuietHoursEnd,
		DailyPlansTime:        p.DailyPlansTime,
		DefaultReminderOffset: offset,
	}, nil
}

// ValidateQuietHours enforces the pairing rule: whenever a start is set the
// end must be set too and fall strictly after it.
func ValidateQuietHours(start, end *TimeOfDay) error {
	if start == nil {
		return nil
	}
	if end == nil {
		return apperrors.Validation("quiet_hours_end must be set when quiet_hours_start is set")
	}
	if !start.Before(*end) {
		return apperrors.Validation("quiet_hours_end must be after quiet_hours_start")
	}
	return nil
}

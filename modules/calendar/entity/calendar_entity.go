package entity

import (
	"strings"
	"time"

	"schedbot/core/constants"
	"schedbot/core/database"
	apperrors "schedbot/core/errors"
)

// Calendar is an external ICS calendar a user has linked. Name and url are
// globally unique across all users (preserved from the observed schema;
// see DESIGN.md).
type Calendar struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	Name        string     `db:"name" json:"name"`
	URL         string     `db:"url" json:"url"`
	LastSync    *time.Time `db:"last_sync" json:"last_sync,omitempty"`
	SyncEnabled bool       `db:"sync_enabled" json:"sync_enabled"`
}

var Table = database.TableDef{
	Name: "calendars",
	DDL: `
		CREATE TABLE IF NOT EXISTS calendars (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL UNIQUE,
			url VARCHAR(255) NOT NULL UNIQUE,
			last_sync TIMESTAMPTZ NULL,
			sync_enabled BOOLEAN NOT NULL DEFAULT TRUE
		)`,
}

// NewCalendar validates and constructs a Calendar.
func NewCalendar(userID int64, name, url string) (*Calendar, error) {
	if userID == 0 {
		return nil, apperrors.Validation("calendar user_id is required")
	}
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	return &Calendar{
		UserID:      userID,
		Name:        name,
		URL:         url,
		SyncEnabled: true,
	}, nil
}

func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.Validation("calendar name cannot be empty")
	}
	if len(name) > constants.MaxCalendarNameLen {
		return "", apperrors.Validation("calendar name cannot exceed 255 characters")
	}
	return name, nil
}

// ValidateURL requires an http(s) scheme and an .ics suffix.
func ValidateURL(url string) error {
	if len(url) > constants.MaxCalendarURLLen {
		return apperrors.Validation("calendar url cannot exceed 255 characters")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return apperrors.Validation("calendar url must use http or https")
	}
	if !strings.HasSuffix(url, ".ics") {
		return apperrors.Validation("calendar url must point at an .ics resource")
	}
	return nil
}

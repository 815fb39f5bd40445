package dto

// CreateCalendarRequest links a new ICS calendar.
type CreateCalendarRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// UpdateCalendarRequest updates only the provided fields.
type UpdateCalendarRequest struct {
	Name        *string `json:"name,omitempty"`
	URL         *string `json:"url,omitempty"`
	SyncEnabled *bool   `json:"sync_enabled,omitempty"`
}

// CalendarFilter selects calendars by owner, name or url.
type CalendarFilter struct {
	UserID *int64  `json:"user_id,omitempty" query:"user_id"`
	Name   *string `json:"name,omitempty" query:"name"`
	URL    *string `json:"url,omitempty" query:"url"`
}

// SyncResult reports the outcome of an ICS import.
type SyncResult struct {
	CalendarID int64 `json:"calendar_id"`
	Imported   int   `json:"imported"`
	Skipped    int   `json:"skipped"`
	Removed    int64 `json:"removed"`
}

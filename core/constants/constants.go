package constants

// Reminder defaults.
const (
	// DefaultReminderOffsetSeconds is the global fallback used when the
	// caller supplies no offset and the user has no settings row.
	DefaultReminderOffsetSeconds int64 = 900

	// DefaultTimezone and DefaultLanguage seed new settings rows.
	DefaultTimezone = "UTC+2"
	DefaultLanguage = "en"
)

// Field length bounds (mirrored by SQL column sizes).
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1024
	MaxCalendarNameLen   = 255
	MaxCalendarURLLen    = 255
	MaxRRuleLength       = 255
)

// Pagination bounds for find queries.
const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// Database pool defaults.
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis channel the reminder sweep publishes due reminders to. The chat
// transport subscribes to this channel; delivery itself is not owned here.
const ReminderChannel = "schedbot:reminders:due"

package dto

import "schedbot/modules/settings/entity"

// UpdateSettingsRequest updates only the provided fields; omitted fields are
// untouched. Clearing a nullable time requires the paired rules to still
// hold, which the repository re-checks against the effective values.
type UpdateSettingsRequest struct {
	Timezone              *string            `json:"timezone,omitempty"`
	Language              *string            `json:"language,omitempty"`
	QuietHoursStart       *entity.TimeOfDay  `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd         *entity.TimeOfDay  `json:"quiet_hours_end,omitempty"`
	DailyPlansTime        *entity.TimeOfDay  `json:"daily_plans_time,omitempty"`
	DefaultReminderOffset *int64             `json:"default_reminder_offset,omitempty"`
	ClearQuietHours       bool               `json:"clear_quiet_hours,omitempty"`
	ClearDailyPlansTime   bool               `json:"clear_daily_plans_time,omitempty"`
}

// CreateSettingsRequest seeds a settings row explicitly. Normally rows are
// created lazily on first access with defaults.
type CreateSettingsRequest struct {
	Timezone              string            `json:"timezone,omitempty"`
	Language              string            `json:"language,omitempty"`
	QuietHoursStart       *entity.TimeOfDay `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd         *entity.TimeOfDay `json:"quiet_hours_end,omitempty"`
	DailyPlansTime        *entity.TimeOfDay `json:"daily_plans_time,omitempty"`
	DefaultReminderOffset *int64            `json:"default_reminder_offset,omitempty"`
}

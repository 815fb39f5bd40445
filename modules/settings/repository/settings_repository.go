package repository

import (
	"context"
	"database/sql"
	"errors"

	"schedbot/core/database"
	apperrors "schedbot/core/errors"
	"schedbot/core/logger"
	"schedbot/modules/settings/dto"
	"schedbot/modules/settings/entity"
)

// SettingsRepository provides CRUD over user_settings. Like every
// repository it is bound to a Session, so a repository built from a
// UnitOfWork participates in that unit's transaction.
type SettingsRepository struct {
	db database.Session
}

func NewSettingsRepository(db database.Session) *SettingsRepository {
	return &SettingsRepository{db: db}
}

const settingsColumns = `id, user_id, timezone, language, quiet_hours_start, quiet_hours_end, daily_plans_time, default_reminder_offset`

func (r *SettingsRepository) GetByID(ctx context.Context, id int64) (*entity.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM user_settings WHERE id = $1`

	var settings entity.Settings
	err := r.db.GetContext(ctx, &settings, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("SettingsRepository:GetByID", err)
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*entity.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM user_settings WHERE user_id = $1`

	var settings entity.Settings
	err := r.db.GetContext(ctx, &settings, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("SettingsRepository:GetByUserID", err)
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) Create(ctx context.Context, userID int64, req *dto.CreateSettingsRequest) (*entity.Settings, error) {
	settings, err := entity.NewSettings(entity.NewSettingsParams{
		UserID:                userID,
		Timezone:              req.Timezone,
		Language:              req.Language,
		QuietHoursStart:       req.QuietHoursStart,
		QuietHoursEnd:         req.QuietHoursEnd,
		DailyPlansTime:        req.DailyPlansTime,
		DefaultReminderOffset: req.DefaultReminderOffset,
	})
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO user_settings (user_id, timezone, language, quiet_hours_start, quiet_hours_end, daily_plans_time, default_reminder_offset)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = r.db.GetContext(ctx, &settings.ID, query,
		settings.UserID, settings.Timezone, settings.Language,
		settings.QuietHoursStart, settings.QuietHoursEnd,
		settings.DailyPlansTime, settings.DefaultReminderOffset)
	if err != nil {
		logger.Error("SettingsRepository:Create", err)
		return nil, database.WrapError(err, "settings already exist for this user")
	}
	return settings, nil
}

// Update applies only the provided fields. The quiet-hours pairing rule is
// re-validated against the effective (merged) values.
func (r *SettingsRepository) Update(ctx context.Context, id int64, req *dto.UpdateSettingsRequest) (*entity.Settings, error) {
	settings, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, apperrors.NotFound("settings", id)
	}

	if req.Timezone != nil {
		if *req.Timezone == "" {
			return nil, apperrors.Validation("timezone cannot be empty")
		}
		settings.Timezone = *req.Timezone
	}
	if req.Language != nil {
		if *req.Language == "" {
			return nil, apperrors.Validation("language cannot be empty")
		}
		settings.Language = *req.Language
	}
	if req.ClearQuietHours {
		settings.QuietHoursStart = nil
		settings.QuietHoursEnd = nil
	}
	if req.QuietHoursStart != nil {
		settings.QuietHoursStart = req.QuietHoursStart
	}
	if req.QuietHoursEnd != nil {
		settings.QuietHoursEnd = req.QuietHoursEnd
	}
	if req.ClearDailyPlansTime {
		settings.DailyPlansTime = nil
	}
	if req.DailyPlansTime != nil {
		settings.DailyPlansTime = req.DailyPlansTime
	}
	if req.DefaultReminderOffset != nil {
		if *req.DefaultReminderOffset < 0 {
			return nil, apperrors.Validation("default_reminder_offset must be non-negative")
		}
		settings.DefaultReminderOffset = *req.DefaultReminderOffset
	}

	if err := entity.ValidateQuietHours(settings.QuietHoursStart, settings.QuietHoursEnd); err != nil {
		return nil, err
	}

	query := `
		UPDATE user_settings
		SET timezone = $2, language = $3, quiet_hours_start = $4, quiet_hours_end = $5,
		    daily_plans_time = $6, default_reminder_offset = $7
		WHERE id = $1
	`
	_, err = r.db.ExecContext(ctx, query,
		settings.ID, settings.Timezone, settings.Language,
		settings.QuietHoursStart, settings.QuietHoursEnd,
		settings.DailyPlansTime, settings.DefaultReminderOffset)
	if err != nil {
		logger.Error("SettingsRepository:Update", err)
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_settings WHERE id = $1`, id)
	if err != nil {
		logger.Error("SettingsRepository:Delete", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("settings", id)
	}
	return nil
}

// DefaultReminderOffset resolves the user's default offset, falling back to
// nil when the user has no settings row. Used by event creation.
func (r *SettingsRepository) DefaultReminderOffset(ctx context.Context, userID int64) (*int64, error) {
	settings, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, nil
	}
	offset := settings.DefaultReminderOffset
	return &offset, nil
}

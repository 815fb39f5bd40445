package service

import (
	"context"

	"schedbot/core/database"
	"schedbot/modules/settings/dto"
	"schedbot/modules/settings/entity"
	"schedbot/modules/settings/repository"
)

type SettingsService struct {
	db *database.Database
}

func NewSettingsService(db *database.Database) *SettingsService {
	return &SettingsService{db: db}
}

// GetOrCreate returns the user's settings, creating the row with defaults
// on first access.
func (s *SettingsService) GetOrCreate(ctx context.Context, userID int64) (*entity.Settings, error) {
	var result *entity.Settings
	err := s.db.WithinTx(ctx, func(sess database.Session) error {
		repo := repository.NewSettingsRepository(sess)
		existing, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}
		created, err := repo.Create(ctx, userID, &dto.CreateSettingsRequest{})
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	return result, err
}

// Update applies a partial update, creating the row first when the user has
// never touched their settings.
func (s *SettingsService) Update(ctx context.Context, userID int64, req *dto.UpdateSettingsRequest) (*entity.Settings, error) {
	var result *entity.Settings
	err := s.db.WithinTx(ctx, func(sess database.Session) error {
		repo := repository.NewSettingsRepository(sess)
		existing, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			existing, err = repo.Create(ctx, userID, &dto.CreateSettingsRequest{})
			if err != nil {
				return err
			}
		}
		updated, err := repo.Update(ctx, existing.ID, req)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	return result, err
}

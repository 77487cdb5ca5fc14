package store

import (
	"context"
	"database/sql"
	"errors"
)

// Setting keys.
const (
	SettingCameraEnabled = "camera_enabled"
	SettingLastModule    = "last_module"
)

// SettingsRepository stores key/value application settings.
type SettingsRepository struct {
	s *Store
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{s: s}
}

// Get returns a setting, or ErrNotFound.
func (r *SettingsRepository) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := r.s.queryRow(ctx, `SELECT value FROM settings WHERE name = ?`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// GetDefault returns a setting, or def when it is unset.
func (r *SettingsRepository) GetDefault(ctx context.Context, name, def string) (string, error) {
	value, err := r.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return value, err
}

// Set inserts or replaces a setting.
func (r *SettingsRepository) Set(ctx context.Context, name, value string) error {
	_, err := r.s.exec(ctx, r.s.dialect.UpsertSetting(), name, value)
	return err
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ppiankov/jdsort/internal/model"
)

const settingsKey = "app_settings"

// LoadSettings returns the saved settings, or model.DefaultSettings when none were saved.
func (s *Store) LoadSettings(ctx context.Context) (model.Settings, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", settingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	settings := model.DefaultSettings()
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return model.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// SaveSettings replaces the saved settings.
func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = s.execWithRetry(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		settingsKey, string(data), formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

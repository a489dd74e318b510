package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/pantrypal/internal/model"
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the value for key, or "" if the user never set it.
func (s *SettingsStore) Get(userID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE user_id = ? AND key = ?`, userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) Set(userID int64, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// GetTheme returns the user's theme mode, defaulting to light.
func (s *SettingsStore) GetTheme(userID int64) (string, error) {
	mode, err := s.Get(userID, model.SettingThemeMode)
	if err != nil {
		return "", err
	}
	if !model.ValidTheme(mode) {
		return model.ThemeLight, nil
	}
	return mode, nil
}

func (s *SettingsStore) SetTheme(userID int64, mode string) error {
	if !model.ValidTheme(mode) {
		return fmt.Errorf("invalid theme mode %q", mode)
	}
	return s.Set(userID, model.SettingThemeMode, mode)
}

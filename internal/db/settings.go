package db

import (
	"database/sql"
	"errors"
	"fmt"
)

const apiKeySetting = "api_key"

// GetSetting returns a stored setting, or "" when unset
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// APIKey returns the generation API key
func (db *DB) APIKey() (string, error) {
	return db.GetSetting(apiKeySetting)
}

// SetAPIKey stores the generation API key
func (db *DB) SetAPIKey(key string) error {
	return db.SetSetting(apiKeySetting, key)
}

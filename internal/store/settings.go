package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ayusman/headtype/internal/gesture"
)

// Setting keys for the gesture thresholds.
const (
	SettingDeadZone       = "dead_zone"
	SettingOpenThreshold  = "open_threshold"
	SettingCloseThreshold = "close_threshold"
	SettingCooldownMs     = "cooldown_ms"
)

// SettingsRepository stores key-value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value of key, or ErrNotFound.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set inserts or replaces the value of key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// Delete removes key. Deleting a missing key returns ErrNotFound.
func (r *SettingsRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every stored setting.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// GestureConfig returns base with any stored threshold overrides applied.
func (r *SettingsRepository) GestureConfig(base gesture.Config) (gesture.Config, error) {
	settings, err := r.All()
	if err != nil {
		return base, err
	}

	cfg := base
	floats := map[string]*float64{
		SettingDeadZone:       &cfg.DeadZone,
		SettingOpenThreshold:  &cfg.OpenThreshold,
		SettingCloseThreshold: &cfg.CloseThreshold,
	}
	for key, dst := range floats {
		raw, ok := settings[key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return base, fmt.Errorf("setting %s: %w", key, err)
		}
		*dst = v
	}

	if raw, ok := settings[SettingCooldownMs]; ok {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return base, fmt.Errorf("setting %s: %w", SettingCooldownMs, err)
		}
		if ms < 0 || ms > gesture.MaxCooldown.Milliseconds() {
			return base, fmt.Errorf("setting %s: %d out of range", SettingCooldownMs, ms)
		}
		cfg.Cooldown = time.Duration(ms) * time.Millisecond
	}

	if err := cfg.Validate(); err != nil {
		return base, fmt.Errorf("stored gesture settings: %w", err)
	}
	return cfg, nil
}

// SaveGestureConfig validates cfg and stores all four thresholds.
func (r *SettingsRepository) SaveGestureConfig(cfg gesture.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	values := map[string]string{
		SettingDeadZone:       strconv.FormatFloat(cfg.DeadZone, 'g', -1, 64),
		SettingOpenThreshold:  strconv.FormatFloat(cfg.OpenThreshold, 'g', -1, 64),
		SettingCloseThreshold: strconv.FormatFloat(cfg.CloseThreshold, 'g', -1, 64),
		SettingCooldownMs:     strconv.FormatInt(cfg.Cooldown.Milliseconds(), 10),
	}
	now := time.Now()
	for key, value := range values {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now,
		)
		if err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return tx.Commit()
}

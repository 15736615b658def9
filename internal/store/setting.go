package store

import (
	"database/sql"
	"errors"
	"strconv"
)

// Settings holds the tunable viewer settings persisted across restarts.
type Settings struct {
	// CameraID is the capture device index.
	CameraID int
	// MaxHands is the maximum number of hands the detector reports.
	MaxHands int
	// MinConfidence is the detector's minimum detection confidence (0.0-1.0).
	MinConfidence float64
	// PinchThreshold is the classifier's pinch distance threshold in
	// normalized coordinate units.
	PinchThreshold float64
	// SmoothWindow is the label smoothing window in frames; 1 disables
	// smoothing.
	SmoothWindow int
}

// DefaultSettings returns the settings used before anything is persisted.
func DefaultSettings() Settings {
	return Settings{
		CameraID:       0,
		MaxHands:       2,
		MinConfidence:  0.5,
		PinchThreshold: 0.08,
		SmoothWindow:   5,
	}
}

// SettingsRepository reads and writes the settings table.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Settings keys as stored in the settings table.
const (
	keyCameraID       = "camera_id"
	keyMaxHands       = "max_hands"
	keyMinConfidence  = "min_confidence"
	keyPinchThreshold = "pinch_threshold"
	keySmoothWindow   = "smooth_window"
)

// Load reads the persisted settings, filling in defaults for missing keys.
func (r *SettingsRepository) Load() (Settings, error) {
	settings := DefaultSettings()

	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return settings, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, err
		}

		switch key {
		case keyCameraID:
			if v, err := strconv.Atoi(value); err == nil {
				settings.CameraID = v
			}
		case keyMaxHands:
			if v, err := strconv.Atoi(value); err == nil {
				settings.MaxHands = v
			}
		case keyMinConfidence:
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				settings.MinConfidence = v
			}
		case keyPinchThreshold:
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				settings.PinchThreshold = v
			}
		case keySmoothWindow:
			if v, err := strconv.Atoi(value); err == nil {
				settings.SmoothWindow = v
			}
		}
	}

	return settings, rows.Err()
}

// Save persists all settings in a single transaction.
func (r *SettingsRepository) Save(settings Settings) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	pairs := []struct {
		key   string
		value string
	}{
		{keyCameraID, strconv.Itoa(settings.CameraID)},
		{keyMaxHands, strconv.Itoa(settings.MaxHands)},
		{keyMinConfidence, strconv.FormatFloat(settings.MinConfidence, 'f', -1, 64)},
		{keyPinchThreshold, strconv.FormatFloat(settings.PinchThreshold, 'f', -1, 64)},
		{keySmoothWindow, strconv.Itoa(settings.SmoothWindow)},
	}

	for _, p := range pairs {
		if _, err := stmt.Exec(p.key, p.value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Get reads a single raw setting value by key.
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

package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/postvault"
)

var _ postvault.SettingService = (*SettingService)(nil)

// SettingService implements postvault.SettingService using SQLite.
type SettingService struct {
	db *DB
}

// NewSettingService creates a new SettingService.
func NewSettingService(db *DB) *SettingService {
	return &SettingService{db: db}
}

// GetSettings returns the stored values for keys. Missing keys are absent
// from the result. With no keys every setting is returned.
func (s *SettingService) GetSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT key, value FROM settings")
	if len(keys) > 0 {
		query.WriteString(" WHERE key IN (?" + strings.Repeat(", ?", len(keys)-1) + ")")
		for _, k := range keys {
			args = append(args, k)
		}
	}
	query.WriteString(" ORDER BY key")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
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

// SetSettings upserts every key in values.
func (s *SettingService) SetSettings(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range values {
		if key == "" {
			return postvault.Errorf(postvault.EINVALID, "setting key required")
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RemoveSettings deletes keys. Unknown keys are ignored.
func (s *SettingService) RemoveSettings(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM settings WHERE key IN (?"+strings.Repeat(", ?", len(keys)-1)+")", args...)
	return err
}

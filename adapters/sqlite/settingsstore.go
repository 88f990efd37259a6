package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/artpar/docgate/ports"
)

// SettingsStore persists document settings in SQLite.
type SettingsStore struct {
	db    *DB
	clock ports.Clock
}

// NewSettingsStore creates a settings store.
func NewSettingsStore(db *DB, clock ports.Clock) *SettingsStore {
	return &SettingsStore{db: db, clock: clock}
}

// Get retrieves the document settings. A store that has never been written
// returns zero-valued settings, not an error.
func (s *SettingsStore) Get(ctx context.Context) (ports.Settings, error) {
	var (
		out      ports.Settings
		versions string
		updated  time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT title, description, logo_url, versions, updated_at FROM doc_settings WHERE id = 1`,
	).Scan(&out.Title, &out.Description, &out.LogoURL, &versions, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Settings{}, nil
	}
	if err != nil {
		return ports.Settings{}, fmt.Errorf("query settings: %w", err)
	}

	if err := json.Unmarshal([]byte(versions), &out.Versions); err != nil {
		return ports.Settings{}, fmt.Errorf("decode versions: %w", err)
	}
	out.UpdatedAt = updated
	return out, nil
}

// Put stores the document settings, replacing any previous row.
func (s *SettingsStore) Put(ctx context.Context, settings ports.Settings) error {
	versions, err := json.Marshal(settings.Versions)
	if err != nil {
		return fmt.Errorf("encode versions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO doc_settings (id, title, description, logo_url, versions, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			logo_url = excluded.logo_url,
			versions = excluded.versions,
			updated_at = excluded.updated_at
	`, settings.Title, settings.Description, settings.LogoURL, string(versions), s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("store settings: %w", err)
	}
	return nil
}

var _ ports.SettingsStore = (*SettingsStore)(nil)

// package repositories provides the persistence layer for user preferences
// and pagination bookkeeping.
//
// The core never touches storage directly: the settings repository backs
// persisted preferences (grouping mode, base URLs) and the page offset
// repository implements services.OffsetCache for the YouTrack paginator.
// Both are constructed explicitly and passed to their consumers; there is
// no ambient global state.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	id         TEXT PRIMARY KEY,
	key        TEXT NOT NULL UNIQUE,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS page_offsets (
	id         TEXT PRIMARY KEY,
	issue_id   TEXT NOT NULL UNIQUE,
	skip       INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Setup creates the schema. Safe to run repeatedly.
func Setup(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Well-known settings keys.
const (
	SettingGroupEntries = "group_entries"
	SettingBaseURL      = "youtrack_base_url"
)

// SettingsRepository is a key-value store for persisted preferences.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a settings repository over an open database.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves a setting value. Returns ok=false when the key is unset.
func (r *SettingsRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores a setting value, replacing any previous one.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (id, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		shared.GenerateID(), key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

// Delete removes a setting.
func (r *SettingsRepository) Delete(key string) error {
	if _, err := r.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	return nil
}

// PageOffsetRepository persists per-issue pagination offsets between
// refreshes. Implements services.OffsetCache.
type PageOffsetRepository struct {
	db *sql.DB
}

// NewPageOffsetRepository creates a page offset repository over an open
// database.
func NewPageOffsetRepository(db *sql.DB) *PageOffsetRepository {
	return &PageOffsetRepository{db: db}
}

// Offset returns the remembered offset for an issue, or zero when none is
// recorded.
func (r *PageOffsetRepository) Offset(issueID string) int {
	var skip int
	err := r.db.QueryRow("SELECT skip FROM page_offsets WHERE issue_id = ?", issueID).Scan(&skip)
	if err != nil {
		return 0
	}
	if skip < 0 {
		return 0
	}
	return skip
}

// SetOffset records the offset the last scan of an issue reached.
func (r *PageOffsetRepository) SetOffset(issueID string, skip int) error {
	if skip < 0 {
		skip = 0
	}
	_, err := r.db.Exec(
		`INSERT INTO page_offsets (id, issue_id, skip, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(issue_id) DO UPDATE SET skip = excluded.skip, updated_at = CURRENT_TIMESTAMP`,
		shared.GenerateID(), issueID, skip,
	)
	if err != nil {
		return fmt.Errorf("failed to set page offset for %q: %w", issueID, err)
	}
	return nil
}

// Clear wipes all remembered offsets (e.g. after the tracker history was
// rewritten remotely).
func (r *PageOffsetRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM page_offsets"); err != nil {
		return fmt.Errorf("failed to clear page offsets: %w", err)
	}
	return nil
}

package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agenticmentor/mentor/pkg/models"
)

// DB wraps an SQLite database holding one project record per session.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// DefaultDBPath returns the path to the mentor database under the user's
// data directory.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "mentor", "mentor.db")
}

// Open opens an SQLite database at the given path, creating parent
// directories if needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *DB) Path() string {
	return db.path
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Records},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Records = `
CREATE TABLE IF NOT EXISTS project_records (
	session_id TEXT PRIMARY KEY,
	phase TEXT NOT NULL,
	record TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_project_records_phase ON project_records(phase);
`

// Get returns the record for a session, or (nil, nil) if none is stored.
func (db *DB) Get(sessionID string) (*models.ProjectRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var raw string
	row := db.conn.QueryRow("SELECT record FROM project_records WHERE session_id = ?", sessionID)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get record: %v", ErrStoreUnavailable, err)
	}

	var record models.ProjectRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", sessionID, err)
	}
	if record.Artifacts == nil {
		record.Artifacts = make(map[string]json.RawMessage)
	}
	return &record, nil
}

// Save writes the record through to disk, replacing any prior row.
func (db *DB) Save(sessionID string, record *models.ProjectRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", sessionID, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	_, err = db.conn.Exec(`
		INSERT INTO project_records (session_id, phase, record, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			phase = excluded.phase,
			record = excluded.record,
			updated_at = excluded.updated_at
	`, sessionID, string(record.Phase), string(raw), formatTime(record.CreatedAt), formatTime(record.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%w: save record: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes a session's record. Deleting an absent session is a no-op.
func (db *DB) Delete(sessionID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, err := db.conn.Exec("DELETE FROM project_records WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("%w: delete record: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// List returns all stored session ids, most recently updated first.
func (db *DB) List() ([]string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query("SELECT session_id FROM project_records ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: list records: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Package state persists the durable subset of the playback session and
// hydrates it back at startup. The durable slot is a string-keyed table
// in a SQLite database under the XDG data directory; the session record
// lives under a single fixed key.
package state

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "nano"
	dbFileName = "nano.db"

	// SessionKey is the durable slot holding the last played song and
	// position, as a JSON Record.
	SessionKey = "nano:last-played-song"
)

// Manager owns the state database and implements Slot.
type Manager struct {
	db *sql.DB
}

func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// Get returns the value stored under key, and whether it was present.
func (m *Manager) Get(key string) (string, bool, error) {
	return getValue(m.db, key)
}

// Set stores value under key, replacing any previous value.
func (m *Manager) Set(key, value string) error {
	return setValue(m.db, key, value)
}

// Delete removes key from the slot. Deleting an absent key is not an
// error.
func (m *Manager) Delete(key string) error {
	return deleteValue(m.db, key)
}

func getValue(db *sql.DB, key string) (string, bool, error) {
	var value string
	row := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key)
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func setValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, unixepoch())
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value)
	return err
}

func deleteValue(db *sql.DB, key string) error {
	_, err := db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Package store persists the parsed export and its analytics snapshot as a
// single versioned record in a local SQLite database. The snapshot is
// replaced wholesale on every import; there is no partial update path.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/neilberkman/recap/internal/models"
)

// Version tags stored snapshots. A mismatch on load clears the store
// rather than migrating.
const Version = 1

type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the snapshot database at path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	s := &Store{conn: conn}
	if err := s.initSchema(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w (also failed to close connection: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	schema := `
	-- Single-row snapshot table; a new import replaces the previous row.
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version INTEGER NOT NULL,
		uploaded_at DATETIME NOT NULL,
		data BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
	`

	_, err := s.conn.Exec(schema)
	return err
}

// Save replaces the stored snapshot with the given conversations and
// analytics, stamped with the current time and store version.
func (s *Store) Save(convs []models.ParsedConversation, analytics *models.Analytics) error {
	data := models.StoredData{
		Conversations: convs,
		Analytics:     analytics,
		UploadedAt:    time.Now().UTC(),
		Version:       Version,
	}

	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.conn.Exec(`
		INSERT OR REPLACE INTO snapshots (id, version, uploaded_at, data)
		VALUES (1, ?, ?, ?)
	`, data.Version, data.UploadedAt, blob)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Load returns the stored snapshot, or nil when nothing is stored. A
// version mismatch clears the store and reports it as empty; all instants
// come back as time.Time values at every nesting level.
func (s *Store) Load() (*models.StoredData, error) {
	var version int
	var blob []byte
	err := s.conn.QueryRow(`SELECT version, data FROM snapshots WHERE id = 1`).Scan(&version, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if version != Version {
		if err := s.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear outdated snapshot: %w", err)
		}
		return nil, nil
	}

	var data models.StoredData
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &data, nil
}

// Clear deletes the stored snapshot.
func (s *Store) Clear() error {
	if _, err := s.conn.Exec(`DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

package quota

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists completed-action counts per client key and UTC day in a
// SQLite database. It is the usage snapshot provider for the governor.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

const usageSchema = `
CREATE TABLE IF NOT EXISTS usage_actions (
	client_key TEXT NOT NULL,
	day        TEXT NOT NULL,
	actions    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (client_key, day)
);
`

// OpenStore opens or creates the usage database at path, creating parent
// directories as needed.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create usage db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	if _, err := db.Exec(usageSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init usage schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// day returns the current UTC day bucket.
func (s *Store) day() string {
	return s.now().UTC().Format("2006-01-02")
}

// ActionsToday returns the number of completed actions recorded for
// clientKey today. A key with no row has used zero actions.
func (s *Store) ActionsToday(ctx context.Context, clientKey string) (int, error) {
	var actions int
	err := s.db.QueryRowContext(ctx,
		`SELECT actions FROM usage_actions WHERE client_key = ? AND day = ?`,
		clientKey, s.day(),
	).Scan(&actions)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query usage: %w", err)
	}
	return actions, nil
}

// Record increments today's completed-action count for clientKey. Called
// only after a request is delivered; failed requests never consume quota.
func (s *Store) Record(ctx context.Context, clientKey string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_actions (client_key, day, actions) VALUES (?, ?, 1)
		 ON CONFLICT(client_key, day) DO UPDATE SET actions = actions + 1`,
		clientKey, s.day(),
	)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

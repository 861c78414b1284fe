// Package storage keeps scores and replayable game records in SQLite,
// through the pure-Go modernc.org/sqlite driver so builds need no CGO.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite database shared by every front end in the process.
// It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// connParams apply to every pooled connection. SSH and HTTP players save
// at the same time, so writers wait for the lock instead of failing.
const connParams = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// migrations are applied in order; PRAGMA user_version records how many
// have run. The first two use IF NOT EXISTS so databases created before
// versioning upgrade cleanly.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		max_tile INTEGER NOT NULL DEFAULT 0,
		moves INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);`,

	`CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		seed INTEGER NOT NULL,
		start_level INTEGER NOT NULL DEFAULT 1,
		grid_rows INTEGER NOT NULL,
		grid_cols INTEGER NOT NULL,
		moves TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL DEFAULT 0,
		max_tile INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_games_created ON games(created_at DESC);`,

	`ALTER TABLE games ADD COLUMN preset TEXT NOT NULL DEFAULT '';`,
}

// Open opens or creates the database at dbPath, creating parent
// directories and applying pending migrations. A leading ~ expands to the
// home directory.
func Open(dbPath string) (*Store, error) {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+connParams)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

// SchemaVersion returns the number of applied migrations.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("storage: cannot read schema version: %w", err)
	}
	return v, nil
}

func (s *Store) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters
		if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// parseTime accepts the driver's time.Time or SQLite's text timestamp.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.DateTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

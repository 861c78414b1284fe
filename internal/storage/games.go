package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrGameNotFound is returned by LoadGame for an unknown record ID.
var ErrGameNotFound = errors.New("storage: game not found")

// GameRecord is a finished run stored with enough data to replay it:
// the seed plus one letter (U, D, L, R) per move that changed the board.
type GameRecord struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	Seed       int64     `json:"seed"`
	StartLevel int       `json:"start_level"`
	Preset     string    `json:"preset"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	Moves      string    `json:"moves"`
	Score      int       `json:"score"`
	MaxTile    int       `json:"max_tile"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveGame stores a game record, assigning a new UUID when ID is empty.
// Returns the record ID.
func (s *Store) SaveGame(rec GameRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartLevel <= 0 {
		rec.StartLevel = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO games (id, game_id, seed, start_level, preset, grid_rows, grid_cols, moves, score, max_tile)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.GameID, rec.Seed, rec.StartLevel, rec.Preset, rec.Rows, rec.Cols, rec.Moves, rec.Score, rec.MaxTile,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save game: %w", err)
	}
	return rec.ID, nil
}

const gameColumns = `id, game_id, seed, start_level, preset, grid_rows, grid_cols, moves, score, max_tile, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (GameRecord, error) {
	var rec GameRecord
	var createdAt any
	err := row.Scan(
		&rec.ID,
		&rec.GameID,
		&rec.Seed,
		&rec.StartLevel,
		&rec.Preset,
		&rec.Rows,
		&rec.Cols,
		&rec.Moves,
		&rec.Score,
		&rec.MaxTile,
		&createdAt,
	)
	rec.CreatedAt = parseTime(createdAt)
	return rec, err
}

// LoadGame retrieves a game record by ID.
// A unique ID prefix of at least 8 characters is also accepted.
func (s *Store) LoadGame(id string) (*GameRecord, error) {
	rec, err := scanGame(s.db.QueryRow(
		`SELECT `+gameColumns+` FROM games WHERE id = ?`, id,
	))
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot query game: %w", err)
	}
	if len(id) < 8 {
		return nil, ErrGameNotFound
	}

	rows, err := s.db.Query(
		`SELECT `+gameColumns+` FROM games WHERE id LIKE ? LIMIT 2`, id+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game: %w", err)
	}
	matches, err := scanGames(rows)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, ErrGameNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("storage: game id prefix %q is ambiguous", id)
	}
}

// RecentGames lists the most recent game records, newest first.
func (s *Store) RecentGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+gameColumns+` FROM games ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	return scanGames(rows)
}

func scanGames(rows *sql.Rows) ([]GameRecord, error) {
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan game row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

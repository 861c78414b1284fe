package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScoreEntry is one finished game on a mode's leaderboard.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	GameID    string    `json:"game_id"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"max_tile"`
	Moves     int       `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
}

// GameStats aggregates every score recorded for a mode.
type GameStats struct {
	GameID     string    `json:"game_id"`
	GamesCount int       `json:"games"`
	HighScore  int       `json:"high_score"`
	BestTile   int       `json:"best_tile"`
	AvgScore   float64   `json:"avg_score"`
	TotalScore int64     `json:"total_score"`
	LastPlayed time.Time `json:"last_played"`
}

const scoreColumns = `id, game_id, score, max_tile, moves, created_at`

// SaveScore records a score with no tile or move details.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	return s.SaveResult(gameID, score, 0, 0)
}

// SaveResult records a score with the best tile and move count and
// returns the row ID.
func (s *Store) SaveResult(gameID string, score, maxTile, moves int) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO scores (game_id, score, max_tile, moves) VALUES (?, ?, ?, ?)`,
		gameID, score, maxTile, moves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores returns up to limit scores for a mode, best first. Ties go to
// the earlier game. A non-positive limit means 10.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+scoreColumns+` FROM scores WHERE game_id = ?
		 ORDER BY score DESC, id ASC LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &e.MaxTile, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan score: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearScores deletes a mode's leaderboard. Stored game records are kept.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec(`DELETE FROM scores WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

const statsSelect = `SELECT game_id, COUNT(*), COALESCE(MAX(score), 0), COALESCE(MAX(max_tile), 0),
	COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at) FROM scores`

func scanStats(row rowScanner) (GameStats, error) {
	var gs GameStats
	var lastPlayed any
	err := row.Scan(&gs.GameID, &gs.GamesCount, &gs.HighScore, &gs.BestTile,
		&gs.AvgScore, &gs.TotalScore, &lastPlayed)
	gs.LastPlayed = parseTime(lastPlayed)
	return gs, err
}

// GetGameStats aggregates a mode's scores. A mode with no scores yields
// zero stats, not an error.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	gs, err := scanStats(s.db.QueryRow(statsSelect+` WHERE game_id = ? GROUP BY game_id`, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return &GameStats{GameID: gameID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	return &gs, nil
}

// GetAllGamesStats aggregates scores for every mode that has any.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(statsSelect + ` GROUP BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*GameStats)
	for rows.Next() {
		gs, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats: %w", err)
		}
		out[gs.GameID] = &gs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

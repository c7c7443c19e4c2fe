package game

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// HighScoreService keeps the leaderboard of finished games.
type HighScoreService struct {
	db *sql.DB
}

const highScoreTable = "high_scores"

type Score struct {
	ID         int
	PlayerName string
	Value      int
	Moves      int
	CreatedAt  time.Time
}

func NewHighScoreService(db *sql.DB) (*HighScoreService, error) {
	service := &HighScoreService{db: db}
	if err := service.createTable(); err != nil {
		return nil, err
	}
	return service, nil
}

// createTable creates the high_scores table if it does not exist.
func (serviceImpl *HighScoreService) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + highScoreTable + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_name TEXT NOT NULL,
		token_value INTEGER NOT NULL,
		moves INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := serviceImpl.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	log.Debug("High scores table ensured.")
	return nil
}

// RecordWin stores a finished game.
func (serviceImpl *HighScoreService) RecordWin(playerName string, value int, moves int) error {
	const insertSQL = `
	INSERT INTO ` + highScoreTable + ` (player_name, token_value, moves)
	VALUES (?, ?, ?);`

	if _, err := serviceImpl.db.Exec(insertSQL, playerName, value, moves); err != nil {
		return fmt.Errorf("failed to insert high score for %s: %w", playerName, err)
	}
	return nil
}

// GetHighScores retrieves a page of wins, fewest moves first.
func (serviceImpl *HighScoreService) GetHighScores(limit, offset int) ([]Score, error) {
	const selectSQL = `
	SELECT id, player_name, token_value, moves, created_at
	FROM ` + highScoreTable + `
	ORDER BY moves ASC, id ASC
	LIMIT ? OFFSET ?;`

	rows, err := serviceImpl.db.Query(selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %w", err)
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var score Score
		if err := rows.Scan(&score.ID, &score.PlayerName, &score.Value, &score.Moves, &score.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}

	return scores, nil
}

func (serviceImpl *HighScoreService) GetTotalScoreCount() (int, error) {
	const countSQL = `SELECT COUNT(*) FROM ` + highScoreTable + `;`
	var count int
	if err := serviceImpl.db.QueryRow(countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get total score count: %w", err)
	}
	return count, nil
}

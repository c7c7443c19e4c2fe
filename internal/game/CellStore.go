package game

import (
	"database/sql"
	"fmt"
)

const cellTable = "cell_overrides"

// SQLiteCellStore saves each player's changed cells so their world survives a
// reconnect.
type SQLiteCellStore struct {
	db *sql.DB
}

func NewSQLiteCellStore(db *sql.DB) (*SQLiteCellStore, error) {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + cellTable + ` (
		owner TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		value INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (owner, x, y)
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", cellTable, err)
	}
	return &SQLiteCellStore{db: db}, nil
}

func (store *SQLiteCellStore) LoadCells(owner string) (map[Coord]int, error) {
	const selectSQL = `SELECT x, y, value FROM ` + cellTable + ` WHERE owner = ?;`

	rows, err := store.db.Query(selectSQL, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	cells := make(map[Coord]int)
	for rows.Next() {
		var c Coord
		var value int
		if err := rows.Scan(&c.X, &c.Y, &value); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		cells[c] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating cells: %w", err)
	}
	return cells, nil
}

func (store *SQLiteCellStore) SaveCell(owner string, c Coord, value int) error {
	const upsertSQL = `
	INSERT INTO ` + cellTable + ` (owner, x, y, value) VALUES (?, ?, ?, ?)
	ON CONFLICT (owner, x, y) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;`

	if _, err := store.db.Exec(upsertSQL, owner, c.X, c.Y, value); err != nil {
		return fmt.Errorf("failed to save cell %s for %s: %w", c.Key(), owner, err)
	}
	return nil
}

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  command TEXT NOT NULL,
  sourceFile TEXT,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS link_cache (
  link TEXT PRIMARY KEY,
  predal TEXT NOT NULL,
  fetchedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID, command, sourceFile string, counts map[string]int, timings map[string]float64) error {
	countsJSON, _ := json.Marshal(counts)
	timingsJSON, _ := json.Marshal(timings)
	_, err := d.conn.Exec(
		`INSERT INTO runs (traceId, command, sourceFile, countsJson, timingsJson) VALUES (?, ?, ?, ?, ?)`,
		traceID, command, sourceFile, string(countsJSON), string(timingsJSON),
	)
	return err
}

// UpsertLinks stores resolved names per link, absent results included, so a
// later run can skip the fetch entirely.
func (d *DB) UpsertLinks(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO link_cache (link, predal) VALUES (?, ?)
ON CONFLICT(link) DO UPDATE SET predal = excluded.predal, fetchedAt = CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for link, predal := range values {
		if _, err := stmt.Exec(link, predal); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) GetLink(link string) (*string, error) {
	var predal string
	err := d.conn.QueryRow(`SELECT predal FROM link_cache WHERE link = ?`, link).Scan(&predal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &predal, nil
}

func (d *DB) AllLinks() (map[string]string, error) {
	rows, err := d.conn.Query(`SELECT link, predal FROM link_cache`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var link, predal string
		if err := rows.Scan(&link, &predal); err != nil {
			return nil, err
		}
		out[link] = predal
	}
	return out, rows.Err()
}
